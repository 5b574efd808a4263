package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Errors returned by the order service.
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrServerNotFound = errors.New("server not found")
	ErrTableNotFound  = errors.New("table not found")
	ErrInvalidStatus  = errors.New("unknown status code")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order service.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (database.Employee, error)
	GetTable(ctx context.Context, id int64) (database.DiningTable, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, id int64) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	DeleteOrderLinesByOrder(ctx context.Context, orderID int64) (int64, error)
	DeleteOrder(ctx context.Context, id int64) (int64, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx), so the
// service can bind store instances to transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService owns order creation, state overrides, and cascading deletes.
type OrderService struct {
	store    OrderStore
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(store OrderStore, pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{store: store, pool: pool, newStore: newStore}
}

// CreateOrder opens a new order for the given server and table. Orders start
// in preparation with a zero running total; lines are attached afterwards.
func (s *OrderService) CreateOrder(ctx context.Context, serverID uuid.UUID, tableID int64) (database.Order, error) {
	if _, err := s.store.GetEmployee(ctx, serverID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrServerNotFound
		}
		return database.Order{}, fmt.Errorf("get server: %w", err)
	}

	if _, err := s.store.GetTable(ctx, tableID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrTableNotFound
		}
		return database.Order{}, fmt.Errorf("get table: %w", err)
	}

	order, err := s.store.CreateOrder(ctx, database.CreateOrderParams{
		ServerID: serverID,
		TableID:  tableID,
		Status:   enum.StatusInPreparation,
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// SetOrderStatus is a direct state override. The code is validated against
// the catalog but no transition rules apply; the operator owns the decision.
func (s *OrderService) SetOrderStatus(ctx context.Context, orderID int64, status enum.Status) (database.Order, error) {
	if !status.IsValid() {
		return database.Order{}, ErrInvalidStatus
	}

	order, err := s.store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:     orderID,
		Status: status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}

// DeleteOrder removes the order and all of its lines in one transaction.
// The lines go first, mirroring the cascade the caller expects.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.DeleteOrderLinesByOrder(ctx, orderID); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}

	rows, err := store.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if rows == 0 {
		return ErrOrderNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
