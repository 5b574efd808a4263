package database

import (
	"context"
	"time"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/google/uuid"
)

const createOrder = `
INSERT INTO orders (server_id, table_id, status, total, placed_at, updated_at)
VALUES ($1, $2, $3, 0, now(), now())
RETURNING id, server_id, table_id, status, total, placed_at, updated_at
`

type CreateOrderParams struct {
	ServerID uuid.UUID
	TableID  int64
	Status   enum.Status
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder, arg.ServerID, arg.TableID, arg.Status)
	var o Order
	err := row.Scan(&o.ID, &o.ServerID, &o.TableID, &o.Status, &o.Total, &o.PlacedAt, &o.UpdatedAt)
	return o, err
}

const getOrder = `
SELECT id, server_id, table_id, status, total, placed_at, updated_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var o Order
	err := row.Scan(&o.ID, &o.ServerID, &o.TableID, &o.Status, &o.Total, &o.PlacedAt, &o.UpdatedAt)
	return o, err
}

const getOrderForUpdate = `
SELECT id, server_id, table_id, status, total, placed_at, updated_at
FROM orders
WHERE id = $1
FOR UPDATE
`

// GetOrderForUpdate locks the order row for the remainder of the enclosing
// transaction. Billing and line-state writes take this lock so a concurrent
// kitchen action cannot slip between the eligibility check and the sale.
func (q *Queries) GetOrderForUpdate(ctx context.Context, id int64) (Order, error) {
	row := q.db.QueryRow(ctx, getOrderForUpdate, id)
	var o Order
	err := row.Scan(&o.ID, &o.ServerID, &o.TableID, &o.Status, &o.Total, &o.PlacedAt, &o.UpdatedAt)
	return o, err
}

const listOrders = `
SELECT o.id, o.server_id, e.name AS server_name, o.table_id, t.number AS table_number,
       o.status, o.total, o.placed_at, o.updated_at
FROM orders o
JOIN employees e ON e.id = o.server_id
JOIN dining_tables t ON t.id = o.table_id
ORDER BY o.id ASC
`

type ListOrdersRow struct {
	ID          int64
	ServerID    uuid.UUID
	ServerName  string
	TableID     int64
	TableNumber int32
	Status      enum.Status
	Total       int64
	PlacedAt    time.Time
	UpdatedAt   time.Time
}

func (q *Queries) ListOrders(ctx context.Context) ([]ListOrdersRow, error) {
	rows, err := q.db.Query(ctx, listOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrdersRow
	for rows.Next() {
		var r ListOrdersRow
		if err := rows.Scan(&r.ID, &r.ServerID, &r.ServerName, &r.TableID, &r.TableNumber,
			&r.Status, &r.Total, &r.PlacedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// Payable worklist: the order is still open, every line has reached a
// payable-terminal state (delivered=4 or cancelled=3), and at least one line
// was actually delivered, so there is something to invoice. Orders with no
// lines at all never qualify.
const listPayableOrders = `
SELECT o.id, o.server_id, e.name AS server_name, o.table_id, t.number AS table_number,
       o.status, o.total, o.placed_at, o.updated_at
FROM orders o
JOIN employees e ON e.id = o.server_id
JOIN dining_tables t ON t.id = o.table_id
WHERE o.status NOT IN (3, 5)
  AND EXISTS (
        SELECT 1 FROM order_lines l WHERE l.order_id = o.id
      )
  AND NOT EXISTS (
        SELECT 1 FROM order_lines l
        WHERE l.order_id = o.id AND l.status NOT IN (3, 4)
      )
  AND EXISTS (
        SELECT 1 FROM order_lines l
        WHERE l.order_id = o.id AND l.status <> 3
      )
ORDER BY o.id ASC
`

func (q *Queries) ListPayableOrders(ctx context.Context) ([]ListOrdersRow, error) {
	rows, err := q.db.Query(ctx, listPayableOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrdersRow
	for rows.Next() {
		var r ListOrdersRow
		if err := rows.Scan(&r.ID, &r.ServerID, &r.ServerName, &r.TableID, &r.TableNumber,
			&r.Status, &r.Total, &r.PlacedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const updateOrderStatus = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING id, server_id, table_id, status, total, placed_at, updated_at
`

type UpdateOrderStatusParams struct {
	ID     int64
	Status enum.Status
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status)
	var o Order
	err := row.Scan(&o.ID, &o.ServerID, &o.TableID, &o.Status, &o.Total, &o.PlacedAt, &o.UpdatedAt)
	return o, err
}

const setOrderBilled = `
UPDATE orders
SET status = $2, total = $3, updated_at = now()
WHERE id = $1
RETURNING id, server_id, table_id, status, total, placed_at, updated_at
`

type SetOrderBilledParams struct {
	ID     int64
	Status enum.Status
	Total  int64
}

func (q *Queries) SetOrderBilled(ctx context.Context, arg SetOrderBilledParams) (Order, error) {
	row := q.db.QueryRow(ctx, setOrderBilled, arg.ID, arg.Status, arg.Total)
	var o Order
	err := row.Scan(&o.ID, &o.ServerID, &o.TableID, &o.Status, &o.Total, &o.PlacedAt, &o.UpdatedAt)
	return o, err
}

const touchOrder = `
UPDATE orders SET updated_at = now() WHERE id = $1
`

// TouchOrder refreshes the order's last-activity timestamp. Used when a line
// is delivered; reporting only, not correctness.
func (q *Queries) TouchOrder(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, touchOrder, id)
	return err
}

const deleteOrder = `
DELETE FROM orders WHERE id = $1
`

func (q *Queries) DeleteOrder(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrder, id)
	return tag.RowsAffected(), err
}
