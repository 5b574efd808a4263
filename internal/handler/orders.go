package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, serverID uuid.UUID, tableID int64) (database.Order, error)
	SetOrderStatus(ctx context.Context, orderID int64, status enum.Status) (database.Order, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

// BillingPreviewer produces draft invoices for the pre-bill check screen.
// Satisfied by *service.BillingService.
type BillingPreviewer interface {
	Preview(ctx context.Context, orderID int64) (service.InvoicePreview, error)
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id int64) (database.Order, error)
	ListOrders(ctx context.Context) ([]database.ListOrdersRow, error)
	ListPayableOrders(ctx context.Context) ([]database.ListOrdersRow, error)
	ListOrderLinesByOrder(ctx context.Context, orderID int64) ([]database.ListOrderLinesByOrderRow, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc     OrderServicer
	billing BillingPreviewer
	store   OrderStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, billing BillingPreviewer, store OrderStore) *OrderHandler {
	return &OrderHandler{svc: svc, billing: billing, store: store}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/payable", h.Payable)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/invoice-preview", h.InvoicePreview)
}

// --- Request / Response types ---

type createOrderRequest struct {
	ServerID string `json:"server_id"`
	TableID  int64  `json:"table_id"`
}

type updateOrderRequest struct {
	State int16 `json:"state"`
}

type orderResponse struct {
	ID          int64     `json:"id"`
	ServerID    uuid.UUID `json:"server_id"`
	ServerName  string    `json:"server_name,omitempty"`
	TableID     int64     `json:"table_id"`
	TableNumber int32     `json:"table_number,omitempty"`
	State       int16     `json:"state"`
	StateName   string    `json:"state_name"`
	Total       int64     `json:"total"`
	PlacedAt    time.Time `json:"placed_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type orderLineResponse struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	MenuItemID int64     `json:"menu_item_id"`
	Dish       string    `json:"dish,omitempty"`
	Quantity   int32     `json:"quantity"`
	Annotation string    `json:"annotation"`
	State      int16     `json:"state"`
	StateName  string    `json:"state_name"`
	UnitPrice  string    `json:"unit_price,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// orderDetailResponse extends orderResponse with lines for the GET detail
// endpoint.
type orderDetailResponse struct {
	orderResponse
	Lines []orderLineResponse `json:"lines"`
}

// --- Handlers ---

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	serverID, err := uuid.Parse(req.ServerID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid server_id"})
		return
	}
	if req.TableID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "table_id is required"})
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), serverID, req.TableID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServerNotFound), errors.Is(err, service.ErrTableNotFound):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			logrus.WithError(err).Error("create order")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, dbOrderToResponse(order))
}

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		logrus.WithError(err).Error("list orders")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, ordersToResponse(orders))
}

// Payable handles GET /orders/payable: the cashier worklist of orders whose
// every line has finished and which have something to charge.
func (h *OrderHandler) Payable(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListPayableOrders(r.Context())
	if err != nil {
		logrus.WithError(err).Error("list payable orders")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, ordersToResponse(orders))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		logrus.WithError(err).Error("get order")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	lines, err := h.store.ListOrderLinesByOrder(r.Context(), orderID)
	if err != nil {
		logrus.WithError(err).Error("list order lines")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	lineResps := make([]orderLineResponse, len(lines))
	for i, l := range lines {
		lineResps[i] = orderLineResponse{
			ID:         l.ID,
			OrderID:    l.OrderID,
			MenuItemID: l.MenuItemID,
			Dish:       l.MenuItemName,
			Quantity:   l.Quantity,
			Annotation: l.Annotation,
			State:      int16(l.Status),
			StateName:  l.Status.String(),
			UnitPrice:  numericToString(l.UnitPrice),
			CreatedAt:  l.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, orderDetailResponse{
		orderResponse: dbOrderToResponse(order),
		Lines:         lineResps,
	})
}

// UpdateStatus handles PUT /orders/{id}: a direct state override.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.svc.SetOrderStatus(r.Context(), orderID, enum.Status(req.State))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			logrus.WithError(err).Error("update order status")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(order))
}

// Delete handles DELETE /orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("delete order")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// InvoicePreview handles GET /orders/{id}/invoice-preview.
func (h *OrderHandler) InvoicePreview(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	preview, err := h.billing.Preview(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrNoBillableLines):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			logrus.WithError(err).Error("invoice preview")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// --- Helpers ---

// parseID reads a positive int64 URL parameter, writing a 400 on failure.
func parseID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func dbOrderToResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		ServerID:  o.ServerID,
		TableID:   o.TableID,
		State:     int16(o.Status),
		StateName: o.Status.String(),
		Total:     o.Total,
		PlacedAt:  o.PlacedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func ordersToResponse(rows []database.ListOrdersRow) []orderResponse {
	resp := make([]orderResponse, len(rows))
	for i, o := range rows {
		resp[i] = orderResponse{
			ID:          o.ID,
			ServerID:    o.ServerID,
			ServerName:  o.ServerName,
			TableID:     o.TableID,
			TableNumber: o.TableNumber,
			State:       int16(o.Status),
			StateName:   o.Status.String(),
			Total:       o.Total,
			PlacedAt:    o.PlacedAt,
			UpdatedAt:   o.UpdatedAt,
		}
	}
	return resp
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
