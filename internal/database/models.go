package database

import (
	"time"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Employee is a staff member; waiters are the servers assigned to orders.
type Employee struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Role         string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// DiningTable is seating reference data.
type DiningTable struct {
	ID     int64
	Number int32
	Seats  int32
}

// MenuItem is a dish offered for ordering. Only enabled items may be added
// to an order.
type MenuItem struct {
	ID          int64
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	Enabled     bool
	ImageURL    pgtype.Text
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Order is a table-side request aggregating one or more order lines.
type Order struct {
	ID        int64
	ServerID  uuid.UUID
	TableID   int64
	Status    enum.Status
	Total     int64
	PlacedAt  time.Time
	UpdatedAt time.Time
}

// OrderLine is one menu item entry within an order, with its own quantity,
// annotation, and lifecycle state.
type OrderLine struct {
	ID         int64
	OrderID    int64
	MenuItemID int64
	Quantity   int32
	Annotation string
	Status     enum.Status
	CreatedAt  time.Time
}

// Sale is the billing record finalizing an order. At most one per order,
// enforced by a unique constraint on order_id.
type Sale struct {
	ID      int64
	OrderID int64
	SoldAt  time.Time
	Total   int64
}

// SaleLine is one billed order line, denormalized with the product name and
// price at the time of billing.
type SaleLine struct {
	ID          int64
	SaleID      int64
	ProductName string
	Quantity    int32
	UnitPrice   pgtype.Numeric
	Subtotal    int64
}
