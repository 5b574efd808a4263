package service

import (
	"context"
	"errors"
	"testing"

	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// mockBillingStore implements BillingStore with configurable behavior.
type mockBillingStore struct {
	getOrderFn                 func(ctx context.Context, id int64) (database.Order, error)
	getOrderForUpdateFn        func(ctx context.Context, id int64) (database.Order, error)
	listLineStatusesByOrderFn  func(ctx context.Context, orderID int64) ([]enum.Status, error)
	listBillableLinesByOrderFn func(ctx context.Context, orderID int64) ([]database.BillableLineRow, error)
	createSaleFn               func(ctx context.Context, arg database.CreateSaleParams) (database.Sale, error)
	createSaleLineFn           func(ctx context.Context, arg database.CreateSaleLineParams) (database.SaleLine, error)
	setOrderBilledFn           func(ctx context.Context, arg database.SetOrderBilledParams) (database.Order, error)
	getSaleFn                  func(ctx context.Context, id int64) (database.Sale, error)
	listSaleLinesBySaleFn      func(ctx context.Context, saleID int64) ([]database.SaleLine, error)
}

func (m *mockBillingStore) GetOrder(ctx context.Context, id int64) (database.Order, error) {
	return m.getOrderFn(ctx, id)
}
func (m *mockBillingStore) GetOrderForUpdate(ctx context.Context, id int64) (database.Order, error) {
	return m.getOrderForUpdateFn(ctx, id)
}
func (m *mockBillingStore) ListLineStatusesByOrder(ctx context.Context, orderID int64) ([]enum.Status, error) {
	return m.listLineStatusesByOrderFn(ctx, orderID)
}
func (m *mockBillingStore) ListBillableLinesByOrder(ctx context.Context, orderID int64) ([]database.BillableLineRow, error) {
	return m.listBillableLinesByOrderFn(ctx, orderID)
}
func (m *mockBillingStore) CreateSale(ctx context.Context, arg database.CreateSaleParams) (database.Sale, error) {
	return m.createSaleFn(ctx, arg)
}
func (m *mockBillingStore) CreateSaleLine(ctx context.Context, arg database.CreateSaleLineParams) (database.SaleLine, error) {
	return m.createSaleLineFn(ctx, arg)
}
func (m *mockBillingStore) SetOrderBilled(ctx context.Context, arg database.SetOrderBilledParams) (database.Order, error) {
	return m.setOrderBilledFn(ctx, arg)
}
func (m *mockBillingStore) GetSale(ctx context.Context, id int64) (database.Sale, error) {
	return m.getSaleFn(ctx, id)
}
func (m *mockBillingStore) ListSaleLinesBySale(ctx context.Context, saleID int64) ([]database.SaleLine, error) {
	return m.listSaleLinesBySaleFn(ctx, saleID)
}

func newTestBillingService(store *mockBillingStore) (*BillingService, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	newStore := func(db database.DBTX) BillingStore { return store }
	return NewBillingService(store, pool, newStore), tx
}

// defaultBillingStore wires order 10 as payable with a delivered burger and
// soda: 2 x 7.50 + 2 x 4.00 = 23.
func defaultBillingStore() *mockBillingStore {
	saleLineID := int64(0)
	return &mockBillingStore{
		getOrderFn: func(ctx context.Context, id int64) (database.Order, error) {
			if id != 10 {
				return database.Order{}, pgx.ErrNoRows
			}
			return database.Order{ID: 10, Status: enum.StatusInPreparation}, nil
		},
		getOrderForUpdateFn: func(ctx context.Context, id int64) (database.Order, error) {
			if id != 10 {
				return database.Order{}, pgx.ErrNoRows
			}
			return database.Order{ID: 10, Status: enum.StatusInPreparation}, nil
		},
		listLineStatusesByOrderFn: func(ctx context.Context, orderID int64) ([]enum.Status, error) {
			return []enum.Status{enum.StatusDelivered, enum.StatusDelivered}, nil
		},
		listBillableLinesByOrderFn: func(ctx context.Context, orderID int64) ([]database.BillableLineRow, error) {
			return []database.BillableLineRow{
				{ID: 20, ProductName: "Burger", Quantity: 2, UnitPrice: makeNumeric("7.50")},
				{ID: 21, ProductName: "Soda", Quantity: 2, UnitPrice: makeNumeric("4.00")},
			}, nil
		},
		createSaleFn: func(ctx context.Context, arg database.CreateSaleParams) (database.Sale, error) {
			return database.Sale{ID: 55, OrderID: arg.OrderID, Total: arg.Total}, nil
		},
		createSaleLineFn: func(ctx context.Context, arg database.CreateSaleLineParams) (database.SaleLine, error) {
			saleLineID++
			return database.SaleLine{
				ID:          saleLineID,
				SaleID:      arg.SaleID,
				ProductName: arg.ProductName,
				Quantity:    arg.Quantity,
				UnitPrice:   arg.UnitPrice,
				Subtotal:    arg.Subtotal,
			}, nil
		},
		setOrderBilledFn: func(ctx context.Context, arg database.SetOrderBilledParams) (database.Order, error) {
			return database.Order{ID: arg.ID, Status: arg.Status, Total: arg.Total}, nil
		},
		getSaleFn: func(ctx context.Context, id int64) (database.Sale, error) {
			if id != 55 {
				return database.Sale{}, pgx.ErrNoRows
			}
			return database.Sale{ID: 55, OrderID: 10, Total: 23}, nil
		},
		listSaleLinesBySaleFn: func(ctx context.Context, saleID int64) ([]database.SaleLine, error) {
			return []database.SaleLine{
				{ID: 1, SaleID: saleID, ProductName: "Burger", Quantity: 2, Subtotal: 15},
				{ID: 2, SaleID: saleID, ProductName: "Soda", Quantity: 2, Subtotal: 8},
			}, nil
		},
	}
}

// =====================
// Eligible tests
// =====================

func TestEligible(t *testing.T) {
	tests := []struct {
		name        string
		orderStatus enum.Status
		lines       []enum.Status
		want        bool
	}{
		{"all delivered", enum.StatusInPreparation, []enum.Status{enum.StatusDelivered, enum.StatusDelivered}, true},
		{"delivered and cancelled mix", enum.StatusReady, []enum.Status{enum.StatusDelivered, enum.StatusCancelled}, true},
		{"single delivered line", enum.StatusInPreparation, []enum.Status{enum.StatusDelivered}, true},
		{"no lines", enum.StatusInPreparation, nil, false},
		{"line still in preparation", enum.StatusInPreparation, []enum.Status{enum.StatusDelivered, enum.StatusInPreparation}, false},
		{"line only ready", enum.StatusInPreparation, []enum.Status{enum.StatusReady}, false},
		{"line already billed", enum.StatusInPreparation, []enum.Status{enum.StatusDelivered, enum.StatusBilled}, false},
		{"all lines cancelled", enum.StatusInPreparation, []enum.Status{enum.StatusCancelled, enum.StatusCancelled}, false},
		{"order cancelled", enum.StatusCancelled, []enum.Status{enum.StatusDelivered}, false},
		{"order already billed", enum.StatusBilled, []enum.Status{enum.StatusDelivered}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.orderStatus, tt.lines); got != tt.want {
				t.Errorf("Eligible(%v, %v) = %v, want %v", tt.orderStatus, tt.lines, got, tt.want)
			}
		})
	}
}

// =====================
// LineSubtotal tests
// =====================

func TestLineSubtotal_Truncates(t *testing.T) {
	tests := []struct {
		quantity int32
		price    string
		want     int64
	}{
		{3, "2.33", 6},  // 6.99 truncates down, never rounds up
		{2, "7.50", 15},
		{1, "0.99", 0},
		{4, "2.25", 9},
		{10, "3.00", 30},
	}
	for _, tt := range tests {
		price, _ := decimal.NewFromString(tt.price)
		if got := LineSubtotal(tt.quantity, price); got != tt.want {
			t.Errorf("LineSubtotal(%d, %s) = %d, want %d", tt.quantity, tt.price, got, tt.want)
		}
	}
}

// =====================
// Preview tests
// =====================

func TestPreview_Success(t *testing.T) {
	store := defaultBillingStore()
	svc, _ := newTestBillingService(store)

	preview, err := svc.Preview(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preview.Total != 23 {
		t.Errorf("expected total 23, got %d", preview.Total)
	}
	if len(preview.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(preview.Lines))
	}
	if preview.Lines[0].Subtotal != 15 || preview.Lines[1].Subtotal != 8 {
		t.Errorf("unexpected subtotals: %d, %d", preview.Lines[0].Subtotal, preview.Lines[1].Subtotal)
	}
}

func TestPreview_OrderNotFound(t *testing.T) {
	store := defaultBillingStore()
	svc, _ := newTestBillingService(store)

	_, err := svc.Preview(context.Background(), 99)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestPreview_NoBillableLines(t *testing.T) {
	store := defaultBillingStore()
	store.listBillableLinesByOrderFn = func(ctx context.Context, orderID int64) ([]database.BillableLineRow, error) {
		return nil, nil
	}
	svc, _ := newTestBillingService(store)

	_, err := svc.Preview(context.Background(), 10)
	if !errors.Is(err, ErrNoBillableLines) {
		t.Fatalf("expected ErrNoBillableLines, got: %v", err)
	}
}

// =====================
// GenerateInvoice tests
// =====================

func TestGenerateInvoice_Success(t *testing.T) {
	store := defaultBillingStore()
	var billed database.SetOrderBilledParams
	store.setOrderBilledFn = func(ctx context.Context, arg database.SetOrderBilledParams) (database.Order, error) {
		billed = arg
		return database.Order{ID: arg.ID, Status: arg.Status, Total: arg.Total}, nil
	}
	svc, tx := newTestBillingService(store)

	inv, err := svc.GenerateInvoice(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Sale.Total != 23 {
		t.Errorf("expected sale total 23, got %d", inv.Sale.Total)
	}
	if len(inv.Lines) != 2 {
		t.Fatalf("expected 2 sale lines, got %d", len(inv.Lines))
	}
	if billed.Status != enum.StatusBilled || billed.Total != 23 {
		t.Errorf("expected order billed with total 23, got %+v", billed)
	}
	if !tx.committed {
		t.Error("expected transaction to be committed")
	}
}

func TestGenerateInvoice_TruncatedSubtotals(t *testing.T) {
	store := defaultBillingStore()
	store.listLineStatusesByOrderFn = func(ctx context.Context, orderID int64) ([]enum.Status, error) {
		return []enum.Status{enum.StatusDelivered}, nil
	}
	store.listBillableLinesByOrderFn = func(ctx context.Context, orderID int64) ([]database.BillableLineRow, error) {
		return []database.BillableLineRow{
			{ID: 20, ProductName: "Coffee", Quantity: 3, UnitPrice: makeNumeric("2.33")},
		}, nil
	}
	svc, _ := newTestBillingService(store)

	inv, err := svc.GenerateInvoice(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Sale.Total != 6 {
		t.Errorf("expected truncated total 6, got %d", inv.Sale.Total)
	}
	if inv.Lines[0].Subtotal != 6 {
		t.Errorf("expected line subtotal 6, got %d", inv.Lines[0].Subtotal)
	}
}

func TestGenerateInvoice_OrderNotFound(t *testing.T) {
	store := defaultBillingStore()
	svc, _ := newTestBillingService(store)

	_, err := svc.GenerateInvoice(context.Background(), 99)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestGenerateInvoice_AlreadyBilled(t *testing.T) {
	store := defaultBillingStore()
	store.getOrderForUpdateFn = func(ctx context.Context, id int64) (database.Order, error) {
		return database.Order{ID: 10, Status: enum.StatusBilled}, nil
	}
	svc, tx := newTestBillingService(store)

	_, err := svc.GenerateInvoice(context.Background(), 10)
	if !errors.Is(err, ErrOrderAlreadyBilled) {
		t.Fatalf("expected ErrOrderAlreadyBilled, got: %v", err)
	}
	if tx.committed {
		t.Error("expected transaction not to be committed")
	}
}

func TestGenerateInvoice_CancelledOrder(t *testing.T) {
	store := defaultBillingStore()
	store.getOrderForUpdateFn = func(ctx context.Context, id int64) (database.Order, error) {
		return database.Order{ID: 10, Status: enum.StatusCancelled}, nil
	}
	svc, _ := newTestBillingService(store)

	_, err := svc.GenerateInvoice(context.Background(), 10)
	if !errors.Is(err, ErrOrderVoided) {
		t.Fatalf("expected ErrOrderVoided, got: %v", err)
	}
}

func TestGenerateInvoice_NotPayable(t *testing.T) {
	store := defaultBillingStore()
	store.listLineStatusesByOrderFn = func(ctx context.Context, orderID int64) ([]enum.Status, error) {
		return []enum.Status{enum.StatusDelivered, enum.StatusInPreparation}, nil
	}
	svc, _ := newTestBillingService(store)

	_, err := svc.GenerateInvoice(context.Background(), 10)
	if !errors.Is(err, ErrOrderNotPayable) {
		t.Fatalf("expected ErrOrderNotPayable, got: %v", err)
	}
}

func TestGenerateInvoice_ConcurrentDuplicate(t *testing.T) {
	store := defaultBillingStore()
	store.createSaleFn = func(ctx context.Context, arg database.CreateSaleParams) (database.Sale, error) {
		return database.Sale{}, &pgconn.PgError{
			Code:           "23505",
			ConstraintName: "sales_order_id_key",
		}
	}
	svc, tx := newTestBillingService(store)

	_, err := svc.GenerateInvoice(context.Background(), 10)
	if !errors.Is(err, ErrOrderAlreadyBilled) {
		t.Fatalf("expected ErrOrderAlreadyBilled, got: %v", err)
	}
	if tx.committed {
		t.Error("expected transaction not to be committed")
	}
}

// =====================
// GetInvoice tests
// =====================

func TestGetInvoice_Success(t *testing.T) {
	store := defaultBillingStore()
	svc, _ := newTestBillingService(store)

	inv, err := svc.GetInvoice(context.Background(), 55)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Sale.Total != 23 || len(inv.Lines) != 2 {
		t.Errorf("unexpected invoice: total %d, %d lines", inv.Sale.Total, len(inv.Lines))
	}
}

func TestGetInvoice_NotFound(t *testing.T) {
	store := defaultBillingStore()
	svc, _ := newTestBillingService(store)

	_, err := svc.GetInvoice(context.Background(), 99)
	if !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got: %v", err)
	}
}
