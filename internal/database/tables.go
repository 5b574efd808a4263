package database

import "context"

const listTables = `
SELECT id, number, seats FROM dining_tables ORDER BY id ASC
`

func (q *Queries) ListTables(ctx context.Context) ([]DiningTable, error) {
	rows, err := q.db.Query(ctx, listTables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DiningTable
	for rows.Next() {
		var t DiningTable
		if err := rows.Scan(&t.ID, &t.Number, &t.Seats); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const getTable = `
SELECT id, number, seats FROM dining_tables WHERE id = $1
`

func (q *Queries) GetTable(ctx context.Context, id int64) (DiningTable, error) {
	row := q.db.QueryRow(ctx, getTable, id)
	var t DiningTable
	err := row.Scan(&t.ID, &t.Number, &t.Seats)
	return t, err
}

const createTable = `
INSERT INTO dining_tables (number, seats)
VALUES ($1, $2)
RETURNING id, number, seats
`

type CreateTableParams struct {
	Number int32
	Seats  int32
}

func (q *Queries) CreateTable(ctx context.Context, arg CreateTableParams) (DiningTable, error) {
	row := q.db.QueryRow(ctx, createTable, arg.Number, arg.Seats)
	var t DiningTable
	err := row.Scan(&t.ID, &t.Number, &t.Seats)
	return t, err
}
