package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// KitchenStore defines the database methods needed by kitchen handlers.
// Satisfied by *database.Queries.
type KitchenStore interface {
	ListKitchenQueue(ctx context.Context, status enum.Status) ([]database.KitchenQueueRow, error)
}

// KitchenHandler serves the kitchen display worklist.
type KitchenHandler struct {
	store KitchenStore
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(store KitchenStore) *KitchenHandler {
	return &KitchenHandler{store: store}
}

// RegisterRoutes registers kitchen endpoints on the given Chi router.
// Expected to be mounted at /kitchen.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/queue", h.Queue)
}

type kitchenLineResponse struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	State       int16     `json:"state"`
	StateName   string    `json:"state_name"`
	Dish        string    `json:"dish"`
	TableNumber int32     `json:"table_number"`
	ServerName  string    `json:"server_name"`
	Quantity    int32     `json:"quantity"`
	Annotation  string    `json:"annotation"`
	PlacedAt    time.Time `json:"placed_at"`
}

// Queue handles GET /kitchen/queue. An optional ?state=N query narrows the
// worklist to a single lifecycle state.
func (h *KitchenHandler) Queue(w http.ResponseWriter, r *http.Request) {
	var status enum.Status
	if s := r.URL.Query().Get("state"); s != "" {
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil || !enum.Status(v).IsValid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid state"})
			return
		}
		status = enum.Status(v)
	}

	rows, err := h.store.ListKitchenQueue(r.Context(), status)
	if err != nil {
		logrus.WithError(err).Error("list kitchen queue")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]kitchenLineResponse, len(rows))
	for i, row := range rows {
		resp[i] = kitchenLineResponse{
			ID:          row.ID,
			OrderID:     row.OrderID,
			State:       int16(row.Status),
			StateName:   row.Status.String(),
			Dish:        row.MenuItemName,
			TableNumber: row.TableNumber,
			ServerName:  row.ServerName,
			Quantity:    row.Quantity,
			Annotation:  row.Annotation,
			PlacedAt:    row.PlacedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
