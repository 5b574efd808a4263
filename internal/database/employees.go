package database

import (
	"context"

	"github.com/google/uuid"
)

const getEmployee = `
SELECT id, name, email, role, password_hash, active, created_at
FROM employees
WHERE id = $1
`

func (q *Queries) GetEmployee(ctx context.Context, id uuid.UUID) (Employee, error) {
	row := q.db.QueryRow(ctx, getEmployee, id)
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.PasswordHash, &e.Active, &e.CreatedAt)
	return e, err
}

const getEmployeeByEmail = `
SELECT id, name, email, role, password_hash, active, created_at
FROM employees
WHERE email = $1 AND active = TRUE
`

func (q *Queries) GetEmployeeByEmail(ctx context.Context, email string) (Employee, error) {
	row := q.db.QueryRow(ctx, getEmployeeByEmail, email)
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.PasswordHash, &e.Active, &e.CreatedAt)
	return e, err
}

const listServers = `
SELECT id, name, email, role, password_hash, active, created_at
FROM employees
WHERE role = $1 AND active = TRUE
ORDER BY name ASC
`

// ListServers returns the active employees holding the given role. The order
// form uses it with the waiter role to populate its server picker.
func (q *Queries) ListServers(ctx context.Context, role string) ([]Employee, error) {
	rows, err := q.db.Query(ctx, listServers, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.PasswordHash, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
