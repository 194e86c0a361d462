package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shopfront/commerce"
	"shopfront/models"
)

// fillPickupOrder walks the wizard to the summary step with a pickup order.
func fillPickupOrder(ctx context.Context, m *Machine) {
	m.Open(ctx)
	m.SetCustomer("  John Doe  ", "+79001234567")
	m.Advance(ctx, models.StepCity)
	m.SelectCity(ctx, "Moscow")
	m.Advance(ctx, models.StepLocation)
	m.SetPickupLocation("pl-1")
	m.Advance(ctx, models.StepSummary)
}

func TestSubmitUnverifiedFailsClosed(t *testing.T) {
	m, rec, _, done := newRig(t, baseMux(false, 5000))
	defer done()
	ctx := context.Background()

	fillPickupOrder(ctx, m)
	err := m.Submit(ctx)
	if err != ErrNotVerified {
		t.Fatalf("Submit = %v, want ErrNotVerified", err)
	}
	if !m.IsOpen() {
		t.Fatal("rejected submission must preserve checkout state")
	}
	if m.State().Step != models.StepSummary {
		t.Fatalf("step = %s, want summary preserved", m.State().Step)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.errors) == 0 {
		t.Fatal("expected an error notification naming the remedy")
	}
}

func TestSubmitVerificationCheckFailureFailsClosed(t *testing.T) {
	m, _, _, done := newRig(t, baseMux(true, 5000))
	defer done()
	ctx := context.Background()

	fillPickupOrder(ctx, m)

	// the commerce service goes away right before submission; the
	// verification re-check cannot complete and must fail closed
	done()
	if err := m.Submit(ctx); err != ErrNotVerified {
		t.Fatalf("Submit = %v, want ErrNotVerified when the check cannot complete", err)
	}
	if !m.IsOpen() {
		t.Fatal("state must be preserved when verification cannot be confirmed")
	}
}

func TestSubmitSuccessClearsStateAndNavigates(t *testing.T) {
	var mu sync.Mutex
	var got commerce.OrderRequest

	mux := baseMux(true, 5000)
	mux.HandleFunc("/order/create", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		json.NewDecoder(r.Body).Decode(&got)
		mu.Unlock()
		writeJSON(`{"success": true, "message": "Order placed"}`)(w, r)
	})

	m, rec, cartModel, done := newRig(t, mux)
	defer done()
	ctx := context.Background()

	cartModel.Load(ctx)
	fillPickupOrder(ctx, m)
	if err := m.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	mu.Lock()
	if got.CustomerName != "John Doe" {
		t.Errorf("CustomerName = %q, want trimmed name", got.CustomerName)
	}
	if got.DeliveryType != "pickup" || got.PickupLocationID != "pl-1" {
		t.Errorf("order = %+v, want pickup with pl-1", got)
	}
	if got.DeliveryAddress != "" {
		t.Errorf("pickup order must not carry a delivery address, got %q", got.DeliveryAddress)
	}
	if got.DeliveryCity != "Moscow" {
		t.Errorf("DeliveryCity = %q, want Moscow", got.DeliveryCity)
	}
	mu.Unlock()

	if m.IsOpen() {
		t.Fatal("successful submission must discard checkout state")
	}

	deadline := time.After(500 * time.Millisecond)
	for !rec.navigatedTo("/profile") {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for navigation to the order history view")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSubmitCourierOrderCarriesAddress(t *testing.T) {
	var mu sync.Mutex
	var got commerce.OrderRequest

	mux := baseMux(true, 50000)
	mux.HandleFunc("/order/create", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		json.NewDecoder(r.Body).Decode(&got)
		mu.Unlock()
		writeJSON(`{"success": true}`)(w, r)
	})

	m, _, cartModel, done := newRig(t, mux)
	defer done()
	ctx := context.Background()

	cartModel.Load(ctx)
	m.Open(ctx)
	m.SetCustomer("Jane", "+7900")
	m.SelectCity(ctx, "Kazan")
	m.SetDeliveryType(ctx, models.DeliveryCourier)
	m.SetDeliveryAddress(" Baumana 5 ")
	m.SetUseBalance(true)
	if err := m.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if got.DeliveryType != "delivery" || got.DeliveryAddress != "Baumana 5" {
		t.Fatalf("order = %+v, want courier delivery with trimmed address", got)
	}
	if got.PickupLocationID != "" {
		t.Fatal("courier order must not carry a pickup location")
	}
	if !got.UseBalance {
		t.Fatal("balance toggle must be forwarded")
	}
}

func TestSubmitInsufficientBalanceRejected(t *testing.T) {
	mux := baseMux(true, 100)
	var orderCalls int64
	mux.HandleFunc("/order/create", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&orderCalls, 1)
		writeJSON(`{"success": true}`)(w, r)
	})

	m, _, cartModel, done := newRig(t, mux)
	defer done()
	ctx := context.Background()

	cartModel.Load(ctx) // cart total 24000, balance only 100
	fillPickupOrder(ctx, m)
	m.SetUseBalance(true)

	if err := m.Submit(ctx); err != ErrInsufficientBalance {
		t.Fatalf("Submit = %v, want ErrInsufficientBalance", err)
	}
	if atomic.LoadInt64(&orderCalls) != 0 {
		t.Fatal("no order call may be issued when the balance gate rejects")
	}
	if !m.IsOpen() {
		t.Fatal("state must be preserved for a retry")
	}
}

func TestSubmitFailurePreservesState(t *testing.T) {
	mux := baseMux(true, 5000)
	mux.HandleFunc("/order/create", writeJSON(`{"success": false, "error": "stock changed"}`))

	m, rec, _, done := newRig(t, mux)
	defer done()
	ctx := context.Background()

	fillPickupOrder(ctx, m)
	if err := m.Submit(ctx); err == nil {
		t.Fatal("expected submission failure")
	}
	if !m.IsOpen() || m.State().Step != models.StepSummary {
		t.Fatal("failed submission must preserve state for a retry")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.errors) == 0 || rec.errors[len(rec.errors)-1] != "stock changed" {
		t.Fatalf("errors = %v, want the service error surfaced", rec.errors)
	}
}

func TestSubmitSingleFlight(t *testing.T) {
	gate := make(chan struct{})
	var orderCalls int64

	mux := baseMux(true, 5000)
	mux.HandleFunc("/order/create", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&orderCalls, 1)
		<-gate
		writeJSON(`{"success": true}`)(w, r)
	})

	m, _, _, done := newRig(t, mux)
	defer done()
	ctx := context.Background()

	fillPickupOrder(ctx, m)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Submit(ctx)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got := atomic.LoadInt64(&orderCalls); got != 1 {
		t.Fatalf("concurrent Submit made %d order calls, want exactly 1", got)
	}
}
