package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listEnabledMenuItems = `
SELECT id, name, description, price, enabled, image_url, created_at, updated_at
FROM menu_items
WHERE enabled = TRUE
ORDER BY id ASC
`

func (q *Queries) ListEnabledMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listEnabledMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Enabled,
			&m.ImageURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const getMenuItem = `
SELECT id, name, description, price, enabled, image_url, created_at, updated_at
FROM menu_items
WHERE id = $1
`

func (q *Queries) GetMenuItem(ctx context.Context, id int64) (MenuItem, error) {
	row := q.db.QueryRow(ctx, getMenuItem, id)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Enabled,
		&m.ImageURL, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const createMenuItem = `
INSERT INTO menu_items (name, description, price, enabled, image_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, description, price, enabled, image_url, created_at, updated_at
`

type CreateMenuItemParams struct {
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	Enabled     bool
	ImageURL    pgtype.Text
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItem,
		arg.Name, arg.Description, arg.Price, arg.Enabled, arg.ImageURL)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Enabled,
		&m.ImageURL, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const updateMenuItem = `
UPDATE menu_items
SET name = $2, description = $3, price = $4, enabled = $5, image_url = $6, updated_at = now()
WHERE id = $1
RETURNING id, name, description, price, enabled, image_url, created_at, updated_at
`

type UpdateMenuItemParams struct {
	ID          int64
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	Enabled     bool
	ImageURL    pgtype.Text
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, updateMenuItem,
		arg.ID, arg.Name, arg.Description, arg.Price, arg.Enabled, arg.ImageURL)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Enabled,
		&m.ImageURL, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// Disabling is the menu's delete: the row stays so historical order lines
// keep their join target.
const disableMenuItem = `
UPDATE menu_items SET enabled = FALSE, updated_at = now() WHERE id = $1
`

func (q *Queries) DisableMenuItem(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, disableMenuItem, id)
	return tag.RowsAffected(), err
}
