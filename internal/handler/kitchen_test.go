package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/handler"
	"github.com/comanda-pos/api/internal/middleware"
	"github.com/go-chi/chi/v5"
)

type mockKitchenStore struct {
	rows []database.KitchenQueueRow
	got  enum.Status
}

func (m *mockKitchenStore) ListKitchenQueue(_ context.Context, status enum.Status) ([]database.KitchenQueueRow, error) {
	m.got = status
	if status == 0 {
		return m.rows, nil
	}
	var filtered []database.KitchenQueueRow
	for _, r := range m.rows {
		if r.Status == status {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func setupKitchenRouter(store *mockKitchenStore) *chi.Mux {
	h := handler.NewKitchenHandler(store)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/kitchen", h.RegisterRoutes)
	return r
}

func kitchenFixture() *mockKitchenStore {
	return &mockKitchenStore{
		rows: []database.KitchenQueueRow{
			{ID: 20, OrderID: 10, Status: enum.StatusInPreparation, MenuItemName: "Burger",
				TableNumber: 4, ServerName: "Ana", Quantity: 2, Annotation: "No observations", PlacedAt: time.Now()},
			{ID: 21, OrderID: 10, Status: enum.StatusReady, MenuItemName: "Soda",
				TableNumber: 4, ServerName: "Ana", Quantity: 1, Annotation: "no ice", PlacedAt: time.Now()},
		},
	}
}

func TestKitchenQueue_All(t *testing.T) {
	store := kitchenFixture()
	router := setupKitchenRouter(store)

	rr := doAuthRequest(t, router, "GET", "/kitchen/queue", nil, enum.RoleKitchen)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeList(t, rr)
	if len(resp) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(resp))
	}
	if resp[0]["dish"] != "Burger" || resp[0]["table_number"].(float64) != 4 {
		t.Errorf("unexpected first row: %v", resp[0])
	}
}

func TestKitchenQueue_Filtered(t *testing.T) {
	store := kitchenFixture()
	router := setupKitchenRouter(store)

	rr := doAuthRequest(t, router, "GET", "/kitchen/queue?state=2", nil, enum.RoleKitchen)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if store.got != enum.StatusReady {
		t.Errorf("expected ready filter, got %v", store.got)
	}

	resp := decodeList(t, rr)
	if len(resp) != 1 || resp[0]["dish"] != "Soda" {
		t.Fatalf("expected only the ready line, got %v", resp)
	}
}

func TestKitchenQueue_InvalidState(t *testing.T) {
	router := setupKitchenRouter(kitchenFixture())

	rr := doAuthRequest(t, router, "GET", "/kitchen/queue?state=9", nil, enum.RoleKitchen)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
