package database

import (
	"context"
	"time"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/jackc/pgx/v5/pgtype"
)

const createOrderLine = `
INSERT INTO order_lines (order_id, menu_item_id, quantity, annotation, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, menu_item_id, quantity, annotation, status, created_at
`

type CreateOrderLineParams struct {
	OrderID    int64
	MenuItemID int64
	Quantity   int32
	Annotation string
	Status     enum.Status
}

func (q *Queries) CreateOrderLine(ctx context.Context, arg CreateOrderLineParams) (OrderLine, error) {
	row := q.db.QueryRow(ctx, createOrderLine,
		arg.OrderID, arg.MenuItemID, arg.Quantity, arg.Annotation, arg.Status)
	var l OrderLine
	err := row.Scan(&l.ID, &l.OrderID, &l.MenuItemID, &l.Quantity, &l.Annotation, &l.Status, &l.CreatedAt)
	return l, err
}

const getOrderLine = `
SELECT l.id, l.order_id, l.menu_item_id, l.quantity, l.annotation, l.status, l.created_at,
       o.status AS order_status
FROM order_lines l
JOIN orders o ON o.id = l.order_id
WHERE l.id = $1
`

// GetOrderLineRow carries the owning order's status alongside the line so
// the billed-order mutation guard needs no second round trip.
type GetOrderLineRow struct {
	OrderLine
	OrderStatus enum.Status
}

func (q *Queries) GetOrderLine(ctx context.Context, id int64) (GetOrderLineRow, error) {
	row := q.db.QueryRow(ctx, getOrderLine, id)
	var r GetOrderLineRow
	err := row.Scan(&r.ID, &r.OrderID, &r.MenuItemID, &r.Quantity, &r.Annotation, &r.Status,
		&r.CreatedAt, &r.OrderStatus)
	return r, err
}

const listOrderLinesByOrder = `
SELECT l.id, l.order_id, l.menu_item_id, m.name AS menu_item_name, l.quantity,
       l.annotation, l.status, m.price AS unit_price, l.created_at
FROM order_lines l
JOIN menu_items m ON m.id = l.menu_item_id
WHERE l.order_id = $1
ORDER BY l.id ASC
`

type ListOrderLinesByOrderRow struct {
	ID           int64
	OrderID      int64
	MenuItemID   int64
	MenuItemName string
	Quantity     int32
	Annotation   string
	Status       enum.Status
	UnitPrice    pgtype.Numeric
	CreatedAt    time.Time
}

func (q *Queries) ListOrderLinesByOrder(ctx context.Context, orderID int64) ([]ListOrderLinesByOrderRow, error) {
	rows, err := q.db.Query(ctx, listOrderLinesByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrderLinesByOrderRow
	for rows.Next() {
		var r ListOrderLinesByOrderRow
		if err := rows.Scan(&r.ID, &r.OrderID, &r.MenuItemID, &r.MenuItemName, &r.Quantity,
			&r.Annotation, &r.Status, &r.UnitPrice, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const listLineStatusesByOrder = `
SELECT status FROM order_lines WHERE order_id = $1
`

// ListLineStatusesByOrder returns the status multiset of an order's lines,
// the input of the billing eligibility predicate.
func (q *Queries) ListLineStatusesByOrder(ctx context.Context, orderID int64) ([]enum.Status, error) {
	rows, err := q.db.Query(ctx, listLineStatusesByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var statuses []enum.Status
	for rows.Next() {
		var s enum.Status
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

const updateOrderLine = `
UPDATE order_lines
SET quantity = $2, annotation = $3
WHERE id = $1
RETURNING id, order_id, menu_item_id, quantity, annotation, status, created_at
`

type UpdateOrderLineParams struct {
	ID         int64
	Quantity   int32
	Annotation string
}

func (q *Queries) UpdateOrderLine(ctx context.Context, arg UpdateOrderLineParams) (OrderLine, error) {
	row := q.db.QueryRow(ctx, updateOrderLine, arg.ID, arg.Quantity, arg.Annotation)
	var l OrderLine
	err := row.Scan(&l.ID, &l.OrderID, &l.MenuItemID, &l.Quantity, &l.Annotation, &l.Status, &l.CreatedAt)
	return l, err
}

const updateOrderLineStatus = `
UPDATE order_lines
SET status = $2
WHERE id = $1
RETURNING id, order_id, menu_item_id, quantity, annotation, status, created_at
`

type UpdateOrderLineStatusParams struct {
	ID     int64
	Status enum.Status
}

func (q *Queries) UpdateOrderLineStatus(ctx context.Context, arg UpdateOrderLineStatusParams) (OrderLine, error) {
	row := q.db.QueryRow(ctx, updateOrderLineStatus, arg.ID, arg.Status)
	var l OrderLine
	err := row.Scan(&l.ID, &l.OrderID, &l.MenuItemID, &l.Quantity, &l.Annotation, &l.Status, &l.CreatedAt)
	return l, err
}

const deleteOrderLine = `
DELETE FROM order_lines WHERE id = $1
`

func (q *Queries) DeleteOrderLine(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrderLine, id)
	return tag.RowsAffected(), err
}

const deleteOrderLinesByOrder = `
DELETE FROM order_lines WHERE order_id = $1
`

func (q *Queries) DeleteOrderLinesByOrder(ctx context.Context, orderID int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrderLinesByOrder, orderID)
	return tag.RowsAffected(), err
}

// Billable lines are everything except cancellations, with the menu price
// joined in for subtotal computation.
const listBillableLinesByOrder = `
SELECT l.id, m.name AS product_name, l.quantity, m.price AS unit_price
FROM order_lines l
JOIN menu_items m ON m.id = l.menu_item_id
WHERE l.order_id = $1 AND l.status <> 3
ORDER BY l.id ASC
`

type BillableLineRow struct {
	ID          int64
	ProductName string
	Quantity    int32
	UnitPrice   pgtype.Numeric
}

func (q *Queries) ListBillableLinesByOrder(ctx context.Context, orderID int64) ([]BillableLineRow, error) {
	rows, err := q.db.Query(ctx, listBillableLinesByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BillableLineRow
	for rows.Next() {
		var r BillableLineRow
		if err := rows.Scan(&r.ID, &r.ProductName, &r.Quantity, &r.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

/// Kitchen queue: every line with the context the kitchen display needs,
// optionally filtered to a single status.
const listKitchenQueue = `
SELECT l.id, l.order_id, l.status, m.name AS menu_item_name, t.number AS table_number,
       e.name AS server_name, l.quantity, l.annotation, o.placed_at
FROM order_lines l
JOIN orders o ON o.id = l.order_id
JOIN menu_items m ON m.id = l.menu_item_id
JOIN dining_tables t ON t.id = o.table_id
JOIN employees e ON e.id = o.server_id
WHERE $1::smallint = 0 OR l.status = $1
ORDER BY l.id ASC
`

type KitchenQueueRow struct {
	ID           int64
	OrderID      int64
	Status       enum.Status
	MenuItemName string
	TableNumber  int32
	ServerName   string
	Quantity     int32
	Annotation   string
	PlacedAt     time.Time
}

// ListKitchenQueue returns the kitchen worklist. A zero status means no
// filter.
func (q *Queries) ListKitchenQueue(ctx context.Context, status enum.Status) ([]KitchenQueueRow, error) {
	rows, err := q.db.Query(ctx, listKitchenQueue, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []KitchenQueueRow
	for rows.Next() {
		var r KitchenQueueRow
		if err := rows.Scan(&r.ID, &r.OrderID, &r.Status, &r.MenuItemName, &r.TableNumber,
			&r.ServerName, &r.Quantity, &r.Annotation, &r.PlacedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
