package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/comanda-pos/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// InvoiceServicer defines the service methods needed by invoice handlers.
// Satisfied by *service.BillingService.
type InvoiceServicer interface {
	GenerateInvoice(ctx context.Context, orderID int64) (service.Invoice, error)
	GetInvoice(ctx context.Context, saleID int64) (service.Invoice, error)
}

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	svc InvoiceServicer
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(svc InvoiceServicer) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// RegisterRoutes registers invoice endpoints on the given Chi router.
// Expected to be mounted at /invoices.
func (h *InvoiceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
}

type createInvoiceRequest struct {
	OrderID int64 `json:"order_id"`
}

type invoiceLineResponse struct {
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

type invoiceResponse struct {
	ID      int64                 `json:"id"`
	OrderID int64                 `json:"order_id"`
	SoldAt  time.Time             `json:"sold_at"`
	Total   int64                 `json:"total"`
	Lines   []invoiceLineResponse `json:"lines"`
}

// Create handles POST /invoices: it bills the order and returns the
// persisted invoice.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.OrderID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_id is required"})
		return
	}

	inv, err := h.svc.GenerateInvoice(r.Context(), req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderAlreadyBilled),
			errors.Is(err, service.ErrOrderVoided),
			errors.Is(err, service.ErrOrderNotPayable):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			logrus.WithError(err).Error("generate invoice")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, invoiceToResponse(inv))
}

// Get handles GET /invoices/{id}.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	saleID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	inv, err := h.svc.GetInvoice(r.Context(), saleID)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("get invoice")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, invoiceToResponse(inv))
}

func invoiceToResponse(inv service.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:      inv.Sale.ID,
		OrderID: inv.Sale.OrderID,
		SoldAt:  inv.Sale.SoldAt,
		Total:   inv.Sale.Total,
		Lines:   make([]invoiceLineResponse, len(inv.Lines)),
	}
	for i, l := range inv.Lines {
		resp.Lines[i] = invoiceLineResponse{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   numericToString(l.UnitPrice),
			Subtotal:    l.Subtotal,
		}
	}
	return resp
}
