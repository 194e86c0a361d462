package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"shopfront/balance"
	"shopfront/commerce"
	"shopfront/models"
)

var (
	ErrNotVerified         = errors.New("account is not verified")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Submit re-validates every step, fails closed on verification, evaluates
// the balance toggle once, and issues a single order-creation call. On
// success all wizard state is discarded and the renderer is sent to the
// order history view after NavigateDelay; on failure state is preserved so
// the user can retry. A second call while one is outstanding is dropped.
func (m *Machine) Submit(ctx context.Context) error {
	if !m.submitting.CompareAndSwap(false, true) {
		return nil
	}
	defer m.submitting.Store(false)

	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrNotOpen
	}
	st := m.state
	m.mu.Unlock()

	for _, step := range []models.StepID{models.StepCustomer, models.StepCity, models.StepLocation} {
		probe := st
		probe.Step = step
		if err := validateStep(probe); err != nil {
			m.notify.FieldError(err.Message, err.Field)
			return err
		}
	}

	if !m.refreshVerification(ctx) {
		m.notify.Error("Your account is not verified. Contact an administrator to complete verification.")
		return ErrNotVerified
	}

	snap := m.cart.Snapshot()
	user := m.account.Current()
	res := balance.Evaluate(m.UseBalance(), snap.Total, st.Delivery.DeliveryPrice, user.Balance)
	if !res.Allowed {
		m.notify.Error("Insufficient balance to pay for this order")
		return ErrInsufficientBalance
	}

	req := commerce.OrderRequest{
		CustomerName:  strings.TrimSpace(st.Customer.Name),
		CustomerPhone: strings.TrimSpace(st.Customer.Phone),
		DeliveryType:  string(st.Delivery.Type),
		DeliveryCity:  st.Delivery.City,
		UseBalance:    m.UseBalance(),
	}
	if st.Delivery.Type == models.DeliveryPickup {
		req.PickupLocationID = st.Delivery.PickupLocationID
	} else {
		req.DeliveryAddress = strings.TrimSpace(st.Delivery.DeliveryAddress)
	}

	out, err := m.api.CreateOrder(ctx, req)
	if err != nil {
		log.Println("checkout: order create failed:", err)
		m.notify.Error("Failed to place the order")
		return err
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "Failed to place the order"
		}
		m.notify.Error(msg)
		return fmt.Errorf("order rejected: %s", msg)
	}

	msg := out.Message
	if msg == "" {
		msg = "Order placed successfully"
	}
	m.notify.Success(msg)

	m.Close()
	m.publishState()

	// the order may have consumed balance; pick up the new value
	if _, _, err := m.account.Refresh(ctx); err != nil {
		log.Println("checkout: balance refresh after order failed:", err)
	}

	delay := m.NavigateDelay
	time.AfterFunc(delay, func() {
		m.notify.Navigate("/profile")
	})
	return nil
}
