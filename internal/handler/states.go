package handler

import (
	"net/http"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/go-chi/chi/v5"
)

// StateHandler serves the lifecycle state catalog so clients render state
// names from codes without hardcoding them.
type StateHandler struct{}

// NewStateHandler creates a new StateHandler.
func NewStateHandler() *StateHandler {
	return &StateHandler{}
}

// RegisterRoutes registers state endpoints on the given Chi router.
func (h *StateHandler) RegisterRoutes(r chi.Router) {
	r.Get("/states", h.List)
}

type stateResponse struct {
	Code int16  `json:"code"`
	Name string `json:"name"`
}

// List handles GET /states.
func (h *StateHandler) List(w http.ResponseWriter, r *http.Request) {
	all := enum.All()
	resp := make([]stateResponse, len(all))
	for i, s := range all {
		resp[i] = stateResponse{Code: int16(s), Name: s.String()}
	}
	writeJSON(w, http.StatusOK, resp)
}
