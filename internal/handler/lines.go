package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// LineServicer defines the service methods needed by line handlers.
// Satisfied by *service.LineService; narrow interface for testability.
type LineServicer interface {
	AddLine(ctx context.Context, req service.AddLineRequest) (database.OrderLine, error)
	UpdateLine(ctx context.Context, req service.UpdateLineRequest) (database.OrderLine, error)
	SetLineStatus(ctx context.Context, lineID int64, status enum.Status) (database.OrderLine, error)
	RemoveLine(ctx context.Context, lineID int64) error
}

// LineHandler handles order line endpoints.
type LineHandler struct {
	svc LineServicer
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(svc LineServicer) *LineHandler {
	return &LineHandler{svc: svc}
}

// RegisterRoutes registers line endpoints on the given Chi router.
// Expected to be mounted at /orders/{id}/lines.
func (h *LineHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Add)
	r.Put("/{lineID}", h.Update)
	r.Delete("/{lineID}", h.Remove)
}

type addLineRequest struct {
	MenuItemID int64  `json:"menu_item_id"`
	Quantity   int32  `json:"quantity"`
	Annotation string `json:"annotation"`
}

// updateLineRequest edits a line. A state move and a quantity/annotation
// edit are separate operations; when state is present the other fields are
// ignored.
type updateLineRequest struct {
	Quantity   *int32  `json:"quantity"`
	Annotation *string `json:"annotation"`
	State      *int16  `json:"state"`
}

// Add handles POST /orders/{id}/lines.
func (h *LineHandler) Add(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.MenuItemID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "menu_item_id is required"})
		return
	}

	line, err := h.svc.AddLine(r.Context(), service.AddLineRequest{
		OrderID:    orderID,
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Annotation: req.Annotation,
	})
	if err != nil {
		writeLineError(w, err, "add line")
		return
	}

	writeJSON(w, http.StatusCreated, lineToResponse(line))
}

// Update handles PUT /orders/{id}/lines/{lineID}.
func (h *LineHandler) Update(w http.ResponseWriter, r *http.Request) {
	lineID, ok := parseID(w, r, "lineID")
	if !ok {
		return
	}

	var req updateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var (
		line database.OrderLine
		err  error
	)
	if req.State != nil {
		line, err = h.svc.SetLineStatus(r.Context(), lineID, enum.Status(*req.State))
	} else {
		if req.Quantity == nil && req.Annotation == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
			return
		}
		line, err = h.svc.UpdateLine(r.Context(), service.UpdateLineRequest{
			LineID:     lineID,
			Quantity:   req.Quantity,
			Annotation: req.Annotation,
		})
	}
	if err != nil {
		writeLineError(w, err, "update line")
		return
	}

	writeJSON(w, http.StatusOK, lineToResponse(line))
}

// Remove handles DELETE /orders/{id}/lines/{lineID}.
func (h *LineHandler) Remove(w http.ResponseWriter, r *http.Request) {
	lineID, ok := parseID(w, r, "lineID")
	if !ok {
		return
	}

	if err := h.svc.RemoveLine(r.Context(), lineID); err != nil {
		writeLineError(w, err, "remove line")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeLineError maps line service errors onto HTTP statuses.
func writeLineError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrMenuItemNotFound),
		errors.Is(err, service.ErrMenuItemDisabled):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrLineNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrOrderBilled):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		logrus.WithError(err).Error(op)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func lineToResponse(l database.OrderLine) orderLineResponse {
	return orderLineResponse{
		ID:         l.ID,
		OrderID:    l.OrderID,
		MenuItemID: l.MenuItemID,
		Quantity:   l.Quantity,
		Annotation: l.Annotation,
		State:      int16(l.Status),
		StateName:  l.Status.String(),
		CreatedAt:  l.CreatedAt,
	}
}
