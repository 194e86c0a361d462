package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInitDefaultsWhenFieldsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/init" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Init(context.Background(), "")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got.Balance != 0 || got.IsVerified || got.User != nil {
		t.Fatalf("empty init must decode to defaults, got %+v", got)
	}
}

func TestInitPassesHostPayloadThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body InitRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode init body: %v", err)
		}
		if body.InitData != "opaque-host-data" {
			t.Errorf("InitData = %q, want unmodified payload", body.InitData)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"balance": 250.5, "isVerified": true}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Init(context.Background(), "opaque-host-data")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got.Balance != 250.5 || !got.IsVerified {
		t.Fatalf("Init = %+v, want balance 250.5 verified", got)
	}
}

func TestAddToCartRejectedByService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error": "out of stock"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).AddToCart(context.Background(), 42)
	if err == nil || err.Error() != "out of stock" {
		t.Fatalf("AddToCart error = %v, want service error text", err)
	}
}

func TestUnexpectedStatusFailsCleanly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Cities(context.Background()); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestShapeMismatchFailsCleanly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Cities(context.Background()); err == nil {
		t.Fatal("expected decode error on shape mismatch")
	}
}

func TestPickupLocationsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "delivery" || q.Get("city") != "Nizhny Novgorod" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"z1","name":"Zone 1","address":"","deliveryPrice":350}]`))
	}))
	defer srv.Close()

	locs, err := NewClient(srv.URL).PickupLocations(context.Background(), "delivery", "Nizhny Novgorod")
	if err != nil {
		t.Fatalf("PickupLocations: %v", err)
	}
	if len(locs) != 1 || locs[0].DeliveryPrice != 350 {
		t.Fatalf("locations = %+v, want one zone at 350", locs)
	}
}
