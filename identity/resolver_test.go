package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopfront/commerce"

	"github.com/golang-jwt/jwt/v5"
)

type staticBridge struct {
	payload string
	ok      bool
}

func (b staticBridge) HostContext() (string, bool) {
	return b.payload, b.ok
}

func TestResolveAnonymousSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"balance": 250, "isVerified": true, "user": {"id": 7, "firstName": "Ann", "username": "ann7"}}`))
	}))
	defer srv.Close()

	got := NewResolver(commerce.NewClient(srv.URL), staticBridge{}).Resolve(context.Background())
	if got.ID != "7" || got.DisplayName != "Ann" {
		t.Fatalf("profile = %+v, want id 7 named Ann", got)
	}
	if got.Balance != 250 || !got.IsVerified {
		t.Fatalf("profile = %+v, want balance 250 verified", got)
	}
}

func TestResolvePassesHostPayloadThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			InitData string `json:"initData"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.InitData != "host-opaque-blob" {
			t.Errorf("InitData = %q, want the payload unmodified", body.InitData)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"balance": 10, "isVerified": false}`))
	}))
	defer srv.Close()

	got := NewResolver(commerce.NewClient(srv.URL), staticBridge{payload: "host-opaque-blob", ok: true}).Resolve(context.Background())
	if got.Balance != 10 {
		t.Fatalf("profile = %+v, want balance 10", got)
	}
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening

	got := NewResolver(commerce.NewClient(srv.URL), staticBridge{payload: "x.y.z", ok: true}).Resolve(context.Background())
	want := Placeholder()
	if got.ID != want.ID || got.Balance != want.Balance {
		t.Fatalf("profile = %+v, want the placeholder %+v", got, want)
	}
	if got.IsVerified {
		t.Fatal("placeholder profile must never be verified")
	}
}

func TestDisplayNameRecoveredFromHostToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "42",
		"name": "Token User",
	}).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"balance": 5, "isVerified": false}`)) // no user record
	}))
	defer srv.Close()

	got := NewResolver(commerce.NewClient(srv.URL), staticBridge{payload: token, ok: true}).Resolve(context.Background())
	if got.DisplayName != "Token User" {
		t.Fatalf("DisplayName = %q, want the token claim", got.DisplayName)
	}
}
