package enum

// Status is the shared lifecycle code for orders and order lines.
// The values are the small integers persisted in the status columns and
// carried on the wire; the legacy data set also used 6 as a second
// cancellation marker, which migration 000002 rewrites to StatusCancelled.
type Status int16

const (
	StatusInPreparation Status = 1
	StatusReady         Status = 2
	StatusCancelled     Status = 3
	StatusDelivered     Status = 4
	StatusBilled        Status = 5
)

// All lists every catalog status in ascending code order.
func All() []Status {
	return []Status{
		StatusInPreparation,
		StatusReady,
		StatusCancelled,
		StatusDelivered,
		StatusBilled,
	}
}

// IsValid reports whether s is a known catalog status. Every write boundary
// validates with this before persisting a status code.
func (s Status) IsValid() bool {
	switch s {
	case StatusInPreparation, StatusReady, StatusCancelled, StatusDelivered, StatusBilled:
		return true
	}
	return false
}

// IsTerminal reports whether s is a final state: the order or line has left
// the kitchen flow and will not move again except through billing.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusDelivered, StatusBilled:
		return true
	}
	return false
}

// IsPayableTerminal reports whether a line in state s no longer blocks
// billing of its order: it was either delivered to the table or cancelled.
func (s Status) IsPayableTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) String() string {
	switch s {
	case StatusInPreparation:
		return "In preparation"
	case StatusReady:
		return "Ready"
	case StatusCancelled:
		return "Cancelled"
	case StatusDelivered:
		return "Delivered"
	case StatusBilled:
		return "Billed"
	}
	return "Unknown"
}

// Employee roles (CHECK constrained in DB).
const (
	RoleAdmin   = "ADMIN"
	RoleWaiter  = "WAITER"
	RoleKitchen = "KITCHEN"
	RoleCashier = "CASHIER"
)
