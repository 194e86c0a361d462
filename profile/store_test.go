package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopfront/commerce"
	"shopfront/models"
)

func TestRefreshUpdatesBalanceAndVerification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"balance": 777, "isVerified": true, "orders": [{"id": 1, "totalAmount": 100, "status": "pending", "createdAt": "2026-02-03T10:00:00Z", "deliveryType": "pickup"}]}`))
	}))
	defer srv.Close()

	store := NewStore(commerce.NewClient(srv.URL), models.UserProfile{ID: "1", DisplayName: "Ann", Balance: 5})
	cur, orders, err := store.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if cur.Balance != 777 || !cur.IsVerified {
		t.Fatalf("profile = %+v, want refreshed balance and flag", cur)
	}
	if cur.DisplayName != "Ann" {
		t.Fatal("refresh must not touch identity fields")
	}
	if len(orders) != 1 || orders[0].Status != "pending" {
		t.Fatalf("orders = %+v", orders)
	}
}

func TestRefreshFailureKeepsProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	store := NewStore(commerce.NewClient(srv.URL), models.UserProfile{ID: "1", Balance: 42})
	if _, _, err := store.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh failure")
	}
	if got := store.Current().Balance; got != 42 {
		t.Fatalf("balance = %v, want pre-failure value kept", got)
	}
}
