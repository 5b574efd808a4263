package handler

import (
	"context"
	"net/http"

	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// EmployeeStore defines the database methods needed by employee handlers.
// Satisfied by *database.Queries.
type EmployeeStore interface {
	ListServers(ctx context.Context, role string) ([]database.Employee, error)
}

// EmployeeHandler serves the staff lookups the order screens need.
type EmployeeHandler struct {
	store EmployeeStore
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(store EmployeeStore) *EmployeeHandler {
	return &EmployeeHandler{store: store}
}

// RegisterRoutes registers employee endpoints on the given Chi router.
func (h *EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/servers", h.ListServers)
}

// ListServers handles GET /servers: the active waitstaff an order can be
// opened under.
func (h *EmployeeHandler) ListServers(w http.ResponseWriter, r *http.Request) {
	servers, err := h.store.ListServers(r.Context(), enum.RoleWaiter)
	if err != nil {
		logrus.WithError(err).Error("list servers")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]employeeResponse, len(servers))
	for i, e := range servers {
		resp[i] = employeeResponse{
			ID:    e.ID.String(),
			Name:  e.Name,
			Email: e.Email,
			Role:  e.Role,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
