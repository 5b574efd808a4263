package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/comanda-pos/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// TableStore defines the database methods needed by table handlers.
// Satisfied by *database.Queries.
type TableStore interface {
	ListTables(ctx context.Context) ([]database.DiningTable, error)
	CreateTable(ctx context.Context, arg database.CreateTableParams) (database.DiningTable, error)
}

// TableHandler handles dining table endpoints.
type TableHandler struct {
	store TableStore
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(store TableStore) *TableHandler {
	return &TableHandler{store: store}
}

// RegisterRoutes registers the table read endpoints, mounted at /tables.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterAdminRoutes registers the table write endpoints behind the admin
// role guard.
func (h *TableHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
}

type createTableRequest struct {
	Number int32 `json:"number"`
	Seats  int32 `json:"seats"`
}

type tableResponse struct {
	ID     int64 `json:"id"`
	Number int32 `json:"number"`
	Seats  int32 `json:"seats"`
}

// List handles GET /tables.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context())
	if err != nil {
		logrus.WithError(err).Error("list tables")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = tableResponse{ID: t.ID, Number: t.Number, Seats: t.Seats}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /tables.
func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Number <= 0 || req.Seats <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "number and seats must be positive"})
		return
	}

	table, err := h.store.CreateTable(r.Context(), database.CreateTableParams{
		Number: req.Number,
		Seats:  req.Seats,
	})
	if err != nil {
		logrus.WithError(err).Error("create table")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, tableResponse{ID: table.ID, Number: table.Number, Seats: table.Seats})
}
