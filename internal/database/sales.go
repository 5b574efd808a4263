package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createSale = `
INSERT INTO sales (order_id, sold_at, total)
VALUES ($1, now(), $2)
RETURNING id, order_id, sold_at, total
`

type CreateSaleParams struct {
	OrderID int64
	Total   int64
}

func (q *Queries) CreateSale(ctx context.Context, arg CreateSaleParams) (Sale, error) {
	row := q.db.QueryRow(ctx, createSale, arg.OrderID, arg.Total)
	var s Sale
	err := row.Scan(&s.ID, &s.OrderID, &s.SoldAt, &s.Total)
	return s, err
}

const createSaleLine = `
INSERT INTO sale_lines (sale_id, product_name, quantity, unit_price, subtotal)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, sale_id, product_name, quantity, unit_price, subtotal
`

type CreateSaleLineParams struct {
	SaleID      int64
	ProductName string
	Quantity    int32
	UnitPrice   pgtype.Numeric
	Subtotal    int64
}

func (q *Queries) CreateSaleLine(ctx context.Context, arg CreateSaleLineParams) (SaleLine, error) {
	row := q.db.QueryRow(ctx, createSaleLine,
		arg.SaleID, arg.ProductName, arg.Quantity, arg.UnitPrice, arg.Subtotal)
	var l SaleLine
	err := row.Scan(&l.ID, &l.SaleID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.Subtotal)
	return l, err
}

const getSale = `
SELECT id, order_id, sold_at, total FROM sales WHERE id = $1
`

func (q *Queries) GetSale(ctx context.Context, id int64) (Sale, error) {
	row := q.db.QueryRow(ctx, getSale, id)
	var s Sale
	err := row.Scan(&s.ID, &s.OrderID, &s.SoldAt, &s.Total)
	return s, err
}

const getSaleByOrder = `
SELECT id, order_id, sold_at, total FROM sales WHERE order_id = $1
`

func (q *Queries) GetSaleByOrder(ctx context.Context, orderID int64) (Sale, error) {
	row := q.db.QueryRow(ctx, getSaleByOrder, orderID)
	var s Sale
	err := row.Scan(&s.ID, &s.OrderID, &s.SoldAt, &s.Total)
	return s, err
}

const listSaleLinesBySale = `
SELECT id, sale_id, product_name, quantity, unit_price, subtotal
FROM sale_lines
WHERE sale_id = $1
ORDER BY id ASC
`

func (q *Queries) ListSaleLinesBySale(ctx context.Context, saleID int64) ([]SaleLine, error) {
	rows, err := q.db.Query(ctx, listSaleLinesBySale, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SaleLine
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
