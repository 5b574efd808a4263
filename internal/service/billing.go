package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Errors returned by the billing service.
var (
	ErrOrderAlreadyBilled = errors.New("order is already billed")
	ErrOrderVoided        = errors.New("order is cancelled")
	ErrOrderNotPayable    = errors.New("order is not payable")
	ErrNoBillableLines    = errors.New("order has no billable lines")
	ErrInvoiceNotFound    = errors.New("invoice not found")
)

// BillingStore defines the DB methods needed by the billing service.
// Satisfied by *database.Queries (and its WithTx variant).
type BillingStore interface {
	GetOrder(ctx context.Context, id int64) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, id int64) (database.Order, error)
	ListLineStatusesByOrder(ctx context.Context, orderID int64) ([]enum.Status, error)
	ListBillableLinesByOrder(ctx context.Context, orderID int64) ([]database.BillableLineRow, error)
	CreateSale(ctx context.Context, arg database.CreateSaleParams) (database.Sale, error)
	CreateSaleLine(ctx context.Context, arg database.CreateSaleLineParams) (database.SaleLine, error)
	SetOrderBilled(ctx context.Context, arg database.SetOrderBilledParams) (database.Order, error)
	GetSale(ctx context.Context, id int64) (database.Sale, error)
	ListSaleLinesBySale(ctx context.Context, saleID int64) ([]database.SaleLine, error)
}

// NewBillingStore creates a BillingStore from a DBTX (pool or tx).
type NewBillingStore func(db database.DBTX) BillingStore

// BillingService evaluates payability and turns payable orders into sales.
type BillingService struct {
	store    BillingStore
	pool     TxBeginner
	newStore NewBillingStore
}

// NewBillingService creates a new BillingService.
func NewBillingService(store BillingStore, pool TxBeginner, newStore NewBillingStore) *BillingService {
	return &BillingService{store: store, pool: pool, newStore: newStore}
}

// Eligible reports whether an order can be billed: the order is neither
// cancelled nor already billed, it has at least one line, every line has
// finished (delivered or cancelled), and not every line is cancelled.
func Eligible(orderStatus enum.Status, lineStatuses []enum.Status) bool {
	if orderStatus == enum.StatusCancelled || orderStatus == enum.StatusBilled {
		return false
	}
	if len(lineStatuses) == 0 {
		return false
	}
	allCancelled := true
	for _, s := range lineStatuses {
		if !s.IsPayableTerminal() {
			return false
		}
		if s != enum.StatusCancelled {
			allCancelled = false
		}
	}
	return !allCancelled
}

// LineSubtotal computes a line's charge in whole currency units, truncating
// the fractional part rather than rounding. 3 x 2.33 bills as 6, not 7.
func LineSubtotal(quantity int32, unitPrice decimal.Decimal) int64 {
	return unitPrice.Mul(decimal.NewFromInt32(quantity)).IntPart()
}

// InvoiceLine is one charged row of an invoice.
type InvoiceLine struct {
	ProductName string          `json:"product_name"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    int64           `json:"subtotal"`
}

// InvoicePreview is the draft invoice for a not-yet-billed order.
type InvoicePreview struct {
	OrderID int64         `json:"order_id"`
	Lines   []InvoiceLine `json:"lines"`
	Total   int64         `json:"total"`
}

// Preview computes the invoice an order would produce, without writing
// anything. Cancelled lines are excluded.
func (s *BillingService) Preview(ctx context.Context, orderID int64) (InvoicePreview, error) {
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvoicePreview{}, ErrOrderNotFound
		}
		return InvoicePreview{}, fmt.Errorf("get order: %w", err)
	}

	rows, err := s.store.ListBillableLinesByOrder(ctx, orderID)
	if err != nil {
		return InvoicePreview{}, fmt.Errorf("list billable lines: %w", err)
	}
	if len(rows) == 0 {
		return InvoicePreview{}, ErrNoBillableLines
	}

	preview := InvoicePreview{OrderID: orderID}
	for _, r := range rows {
		price := numericToDecimal(r.UnitPrice)
		subtotal := LineSubtotal(r.Quantity, price)
		preview.Lines = append(preview.Lines, InvoiceLine{
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			UnitPrice:   price,
			Subtotal:    subtotal,
		})
		preview.Total += subtotal
	}
	return preview, nil
}

// Invoice is a persisted sale with its charged rows.
type Invoice struct {
	Sale  database.Sale       `json:"sale"`
	Lines []database.SaleLine `json:"lines"`
}

// GenerateInvoice bills an order: it locks the order row, re-checks
// payability under the lock, snapshots the non-cancelled lines into sale
// rows, and marks the order billed, all in one transaction. The unique
// constraint on the sale's order makes a concurrent double bill surface as
// ErrOrderAlreadyBilled rather than a second invoice.
func (s *BillingService) GenerateInvoice(ctx context.Context, orderID int64) (Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Invoice{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrOrderNotFound
		}
		return Invoice{}, fmt.Errorf("lock order: %w", err)
	}
	switch order.Status {
	case enum.StatusBilled:
		return Invoice{}, ErrOrderAlreadyBilled
	case enum.StatusCancelled:
		return Invoice{}, ErrOrderVoided
	}

	statuses, err := store.ListLineStatusesByOrder(ctx, orderID)
	if err != nil {
		return Invoice{}, fmt.Errorf("list line statuses: %w", err)
	}
	if !Eligible(order.Status, statuses) {
		return Invoice{}, ErrOrderNotPayable
	}

	rows, err := store.ListBillableLinesByOrder(ctx, orderID)
	if err != nil {
		return Invoice{}, fmt.Errorf("list billable lines: %w", err)
	}

	var total int64
	type chargedLine struct {
		row      database.BillableLineRow
		subtotal int64
	}
	charged := make([]chargedLine, 0, len(rows))
	for _, r := range rows {
		subtotal := LineSubtotal(r.Quantity, numericToDecimal(r.UnitPrice))
		charged = append(charged, chargedLine{row: r, subtotal: subtotal})
		total += subtotal
	}

	sale, err := store.CreateSale(ctx, database.CreateSaleParams{
		OrderID: orderID,
		Total:   total,
	})
	if err != nil {
		if isDuplicateSale(err) {
			return Invoice{}, ErrOrderAlreadyBilled
		}
		return Invoice{}, fmt.Errorf("create sale: %w", err)
	}

	inv := Invoice{Sale: sale}
	for _, c := range charged {
		line, err := store.CreateSaleLine(ctx, database.CreateSaleLineParams{
			SaleID:      sale.ID,
			ProductName: c.row.ProductName,
			Quantity:    c.row.Quantity,
			UnitPrice:   c.row.UnitPrice,
			Subtotal:    c.subtotal,
		})
		if err != nil {
			return Invoice{}, fmt.Errorf("create sale line: %w", err)
		}
		inv.Lines = append(inv.Lines, line)
	}

	if _, err := store.SetOrderBilled(ctx, database.SetOrderBilledParams{
		ID:     orderID,
		Status: enum.StatusBilled,
		Total:  total,
	}); err != nil {
		return Invoice{}, fmt.Errorf("set order billed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, fmt.Errorf("commit tx: %w", err)
	}
	return inv, nil
}

// GetInvoice fetches a persisted sale and its lines.
func (s *BillingService) GetInvoice(ctx context.Context, saleID int64) (Invoice, error) {
	sale, err := s.store.GetSale(ctx, saleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrInvoiceNotFound
		}
		return Invoice{}, fmt.Errorf("get sale: %w", err)
	}
	lines, err := s.store.ListSaleLinesBySale(ctx, sale.ID)
	if err != nil {
		return Invoice{}, fmt.Errorf("list sale lines: %w", err)
	}
	return Invoice{Sale: sale, Lines: lines}, nil
}

// isDuplicateSale checks if the error is a unique constraint violation on
// the sale's order (pgconn error code 23505).
func isDuplicateSale(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "sales_order_id_key"
	}
	return false
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}
