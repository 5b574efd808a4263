package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/jackc/pgx/v5"
)

// DefaultAnnotation is stored when a line is added without observations,
// mirroring the paper comanda's "sin observaciones".
const DefaultAnnotation = "No observations"

// Errors returned by the line service.
var (
	ErrLineNotFound     = errors.New("order line not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrMenuItemDisabled = errors.New("menu item is not enabled")
	ErrInvalidQuantity  = errors.New("quantity must be >= 1")
	ErrOrderBilled      = errors.New("order is already billed")
)

// LineStore defines the DB methods needed by the line service.
// Satisfied by *database.Queries (and its WithTx variant).
type LineStore interface {
	GetOrder(ctx context.Context, id int64) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, id int64) (database.Order, error)
	GetMenuItem(ctx context.Context, id int64) (database.MenuItem, error)
	CreateOrderLine(ctx context.Context, arg database.CreateOrderLineParams) (database.OrderLine, error)
	GetOrderLine(ctx context.Context, id int64) (database.GetOrderLineRow, error)
	UpdateOrderLine(ctx context.Context, arg database.UpdateOrderLineParams) (database.OrderLine, error)
	UpdateOrderLineStatus(ctx context.Context, arg database.UpdateOrderLineStatusParams) (database.OrderLine, error)
	DeleteOrderLine(ctx context.Context, id int64) (int64, error)
	TouchOrder(ctx context.Context, id int64) error
}

// NewLineStore creates a LineStore from a DBTX (pool or tx).
type NewLineStore func(db database.DBTX) LineStore

// LineService owns the per-line lifecycle: add, edit, state moves, removal.
// Nothing here may touch a line once the owning order is billed.
type LineService struct {
	store    LineStore
	pool     TxBeginner
	newStore NewLineStore
}

// NewLineService creates a new LineService.
func NewLineService(store LineStore, pool TxBeginner, newStore NewLineStore) *LineService {
	return &LineService{store: store, pool: pool, newStore: newStore}
}

// AddLineRequest is the validated input for attaching a line to an order.
type AddLineRequest struct {
	OrderID    int64
	MenuItemID int64
	Quantity   int32
	Annotation string
}

// AddLine attaches a new line to an order. The dish must be enabled on the
// menu and the quantity positive; new lines always start in preparation.
func (s *LineService) AddLine(ctx context.Context, req AddLineRequest) (database.OrderLine, error) {
	if req.Quantity < 1 {
		return database.OrderLine{}, ErrInvalidQuantity
	}

	order, err := s.store.GetOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.OrderLine{}, ErrOrderNotFound
		}
		return database.OrderLine{}, fmt.Errorf("get order: %w", err)
	}
	if order.Status == enum.StatusBilled {
		return database.OrderLine{}, ErrOrderBilled
	}

	item, err := s.store.GetMenuItem(ctx, req.MenuItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.OrderLine{}, ErrMenuItemNotFound
		}
		return database.OrderLine{}, fmt.Errorf("get menu item: %w", err)
	}
	if !item.Enabled {
		return database.OrderLine{}, ErrMenuItemDisabled
	}

	annotation := strings.TrimSpace(req.Annotation)
	if annotation == "" {
		annotation = DefaultAnnotation
	}

	line, err := s.store.CreateOrderLine(ctx, database.CreateOrderLineParams{
		OrderID:    req.OrderID,
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Annotation: annotation,
		Status:     enum.StatusInPreparation,
	})
	if err != nil {
		return database.OrderLine{}, fmt.Errorf("create order line: %w", err)
	}
	return line, nil
}

// UpdateLineRequest carries the optional edits for a line; nil fields keep
// the current value.
type UpdateLineRequest struct {
	LineID     int64
	Quantity   *int32
	Annotation *string
}

// UpdateLine edits a line's quantity and/or annotation.
func (s *LineService) UpdateLine(ctx context.Context, req UpdateLineRequest) (database.OrderLine, error) {
	current, err := s.store.GetOrderLine(ctx, req.LineID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.OrderLine{}, ErrLineNotFound
		}
		return database.OrderLine{}, fmt.Errorf("get order line: %w", err)
	}
	if current.OrderStatus == enum.StatusBilled {
		return database.OrderLine{}, ErrOrderBilled
	}

	quantity := current.Quantity
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return database.OrderLine{}, ErrInvalidQuantity
		}
		quantity = *req.Quantity
	}

	annotation := current.Annotation
	if req.Annotation != nil {
		annotation = strings.TrimSpace(*req.Annotation)
		if annotation == "" {
			annotation = DefaultAnnotation
		}
	}

	line, err := s.store.UpdateOrderLine(ctx, database.UpdateOrderLineParams{
		ID:         req.LineID,
		Quantity:   quantity,
		Annotation: annotation,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.OrderLine{}, ErrLineNotFound
		}
		return database.OrderLine{}, fmt.Errorf("update order line: %w", err)
	}
	return line, nil
}

// SetLineStatus moves a line to a new lifecycle state. The whole move runs in
// one transaction with the owning order row locked, so a concurrent billing
// cannot interleave with the state write. Delivering a line refreshes the
// order's last-activity timestamp.
func (s *LineService) SetLineStatus(ctx context.Context, lineID int64, status enum.Status) (database.OrderLine, error) {
	if !status.IsValid() {
		return database.OrderLine{}, ErrInvalidStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.OrderLine{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	current, err := store.GetOrderLine(ctx, lineID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.OrderLine{}, ErrLineNotFound
		}
		return database.OrderLine{}, fmt.Errorf("get order line: %w", err)
	}

	order, err := store.GetOrderForUpdate(ctx, current.OrderID)
	if err != nil {
		return database.OrderLine{}, fmt.Errorf("lock order: %w", err)
	}
	if order.Status == enum.StatusBilled {
		return database.OrderLine{}, ErrOrderBilled
	}

	line, err := store.UpdateOrderLineStatus(ctx, database.UpdateOrderLineStatusParams{
		ID:     lineID,
		Status: status,
	})
	if err != nil {
		return database.OrderLine{}, fmt.Errorf("update line status: %w", err)
	}

	if status == enum.StatusDelivered {
		if err := store.TouchOrder(ctx, current.OrderID); err != nil {
			return database.OrderLine{}, fmt.Errorf("touch order: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return database.OrderLine{}, fmt.Errorf("commit tx: %w", err)
	}
	return line, nil
}

// RemoveLine deletes a single line. The order itself is never deleted here,
// even when its last line goes.
func (s *LineService) RemoveLine(ctx context.Context, lineID int64) error {
	current, err := s.store.GetOrderLine(ctx, lineID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLineNotFound
		}
		return fmt.Errorf("get order line: %w", err)
	}
	if current.OrderStatus == enum.StatusBilled {
		return ErrOrderBilled
	}

	rows, err := s.store.DeleteOrderLine(ctx, lineID)
	if err != nil {
		return fmt.Errorf("delete order line: %w", err)
	}
	if rows == 0 {
		return ErrLineNotFound
	}
	return nil
}
