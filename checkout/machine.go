package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"shopfront/balance"
	"shopfront/cart"
	"shopfront/commerce"
	"shopfront/loyalty"
	"shopfront/models"
	"shopfront/notify"
	"shopfront/profile"
)

var ErrNotOpen = errors.New("checkout is not open")

// ValidationError names the step field that blocked a transition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Machine owns the checkout wizard: current step, delivery selection,
// verification state and the pay-with-balance toggle. All mutation goes
// through its methods; handlers and the renderer only observe.
//
// Network calls are made with the state lock released. Results that depend on
// the selected city or delivery type carry the epoch observed at call start
// and are discarded if the epoch moved while the call was in flight.
type Machine struct {
	mu      sync.Mutex
	api     *commerce.Client
	cart    *cart.Model
	account *profile.Store
	notify  notify.Sink

	open       bool
	state      models.CheckoutState
	useBalance bool
	cities     []string
	locations  []commerce.PickupLocation
	epoch      uint64

	submitting atomic.Bool

	// NavigateDelay is how long the success notification stays visible
	// before the renderer is sent to the order history view.
	NavigateDelay time.Duration
}

func NewMachine(api *commerce.Client, cartModel *cart.Model, account *profile.Store, sink notify.Sink) *Machine {
	return &Machine{
		api:           api,
		cart:          cartModel,
		account:       account,
		notify:        sink,
		state:         defaultState(),
		NavigateDelay: 2 * time.Second,
	}
}

func defaultState() models.CheckoutState {
	return models.CheckoutState{
		Step:     models.StepCustomer,
		Delivery: models.DeliverySelection{Type: models.DeliveryPickup},
	}
}

// Open resets the wizard to the customer step, loads the city list and
// refreshes verification state.
func (m *Machine) Open(ctx context.Context) models.CheckoutState {
	m.mu.Lock()
	m.open = true
	m.epoch++
	m.useBalance = false
	m.state = defaultState()
	m.locations = nil
	m.mu.Unlock()

	cities, err := m.api.Cities(ctx)
	if err != nil {
		log.Println("checkout: cities load failed:", err)
		m.notify.Error("Failed to load cities")
	} else {
		m.mu.Lock()
		m.cities = cities
		m.mu.Unlock()
	}

	m.refreshVerification(ctx)
	m.publishState()
	return m.State()
}

// Close discards all wizard state.
func (m *Machine) Close() {
	m.mu.Lock()
	m.open = false
	m.epoch++
	m.useBalance = false
	m.state = defaultState()
	m.locations = nil
	m.mu.Unlock()
}

func (m *Machine) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Machine) State() models.CheckoutState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Cities() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cities...)
}

func (m *Machine) Locations() []commerce.PickupLocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]commerce.PickupLocation(nil), m.locations...)
}

func (m *Machine) UseBalance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.useBalance
}

// Advance validates the current step and, if it passes, moves to target and
// runs that step's entry side effects. On failure the state is unchanged and
// the offending field is reported.
func (m *Machine) Advance(ctx context.Context, target models.StepID) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrNotOpen
	}
	if err := validateStep(m.state); err != nil {
		m.mu.Unlock()
		m.notify.FieldError(err.Message, err.Field)
		return err
	}
	m.state.Step = target
	m.mu.Unlock()

	m.enterStep(ctx, target)
	m.publishState()
	return nil
}

// Retreat is an unconditional backward transition.
func (m *Machine) Retreat(target models.StepID) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrNotOpen
	}
	m.state.Step = target
	m.mu.Unlock()

	m.publishState()
	return nil
}

func (m *Machine) enterStep(ctx context.Context, step models.StepID) {
	switch step {
	case models.StepLocation:
		m.mu.Lock()
		typ := m.state.Delivery.Type
		city := m.state.Delivery.City
		epoch := m.epoch
		m.mu.Unlock()

		if typ == models.DeliveryPickup {
			m.loadPickupLocations(ctx, city, epoch)
		} else {
			m.loadDeliveryPrice(ctx, city, epoch)
		}

	case models.StepSummary:
		m.refreshVerification(ctx)
	}
}

func (m *Machine) SetCustomer(name, phone string) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrNotOpen
	}
	m.state.Customer = models.CustomerInfo{Name: name, Phone: phone}
	m.mu.Unlock()

	m.publishState()
	return nil
}

// SetDeliveryType switches the fulfillment mode. Switching to pickup zeroes
// the delivery price; switching to courier delivery with a city already
// chosen recomputes it.
func (m *Machine) SetDeliveryType(ctx context.Context, typ models.DeliveryType) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrNotOpen
	}
	m.state.Delivery.Type = typ
	m.epoch++
	epoch := m.epoch
	city := m.state.Delivery.City
	if typ == models.DeliveryPickup {
		m.state.Delivery.DeliveryPrice = 0
	}
	m.mu.Unlock()

	if typ == models.DeliveryCourier && city != "" {
		m.loadDeliveryPrice(ctx, city, epoch)
	}
	m.publishState()
	return nil
}

// SelectCity records the city and invalidates any pickup location chosen for
// the previous one; the caller has to re-select on the location step.
func (m *Machine) SelectCity(ctx context.Context, city string) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrNotOpen
	}
	m.state.Delivery.City = city
	m.state.Delivery.PickupLocationID = ""
	m.locations = nil
	m.epoch++
	epoch := m.epoch
	typ := m.state.Delivery.Type
	if typ == models.DeliveryCourier {
		m.state.Delivery.DeliveryPrice = 0
	}
	m.mu.Unlock()

	if typ == models.DeliveryCourier {
		m.loadDeliveryPrice(ctx, city, epoch)
	}
	m.publishState()
	return nil
}

func (m *Machine) SetPickupLocation(id string) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrNotOpen
	}
	m.state.Delivery.PickupLocationID = id
	m.mu.Unlock()

	m.publishState()
	return nil
}

func (m *Machine) SetDeliveryAddress(address string) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrNotOpen
	}
	m.state.Delivery.DeliveryAddress = address
	m.mu.Unlock()

	m.publishState()
	return nil
}

func (m *Machine) SetUseBalance(use bool) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrNotOpen
	}
	m.useBalance = use
	m.mu.Unlock()

	m.publishState()
	return nil
}

// loadPickupLocations fetches pickup points for the city. A result arriving
// after the city, type or session changed is discarded.
func (m *Machine) loadPickupLocations(ctx context.Context, city string, epoch uint64) {
	if city == "" {
		return
	}
	locs, err := m.api.PickupLocations(ctx, "pickup", city)
	if err != nil {
		log.Println("checkout: pickup locations load failed:", err)
		m.notify.Error("Failed to load pickup locations")
		return
	}

	m.mu.Lock()
	if m.epoch == epoch {
		m.locations = locs
	}
	m.mu.Unlock()
}

// loadDeliveryPrice fetches the courier price for the city: the first
// delivery-type location carries it.
func (m *Machine) loadDeliveryPrice(ctx context.Context, city string, epoch uint64) {
	if city == "" {
		return
	}
	locs, err := m.api.PickupLocations(ctx, "delivery", city)
	if err != nil {
		log.Println("checkout: delivery price load failed:", err)
		m.notify.Error("Failed to load delivery price")
		return
	}
	var price float64
	if len(locs) > 0 {
		price = locs[0].DeliveryPrice
	}

	m.mu.Lock()
	if m.epoch == epoch && m.state.Delivery.Type == models.DeliveryCourier {
		m.state.Delivery.DeliveryPrice = price
	}
	m.mu.Unlock()
}

// refreshVerification re-checks the account flag against the service,
// failing closed when the check cannot complete.
func (m *Machine) refreshVerification(ctx context.Context) bool {
	user, _, err := m.account.Refresh(ctx)
	if err != nil {
		log.Println("checkout: verification check failed:", err)
		return false
	}

	m.mu.Lock()
	m.state.Verified = user.IsVerified
	m.mu.Unlock()
	return user.IsVerified
}

// Summary is the order summary derived from current state: totals, cashback
// for the cart amount, and the balance-payment gate.
type Summary struct {
	Cart          models.CartSnapshot `json:"cart"`
	DeliveryPrice float64             `json:"deliveryPrice"`
	Total         float64             `json:"total"`
	Cashback      loyalty.Cashback    `json:"cashback"`
	Balance       balance.Result      `json:"balance"`
	UseBalance    bool                `json:"useBalance"`
	Verified      bool                `json:"verified"`
}

func (m *Machine) Summary() Summary {
	st := m.State()
	snap := m.cart.Snapshot()
	user := m.account.Current()

	return Summary{
		Cart:          snap,
		DeliveryPrice: st.Delivery.DeliveryPrice,
		Total:         snap.Total + st.Delivery.DeliveryPrice,
		Cashback:      loyalty.Compute(snap.Total),
		Balance:       balance.Evaluate(m.UseBalance(), snap.Total, st.Delivery.DeliveryPrice, user.Balance),
		UseBalance:    m.UseBalance(),
		Verified:      st.Verified,
	}
}

func validateStep(st models.CheckoutState) *ValidationError {
	switch st.Step {
	case models.StepCustomer:
		if strings.TrimSpace(st.Customer.Name) == "" {
			return &ValidationError{Field: "customer-name", Message: "Enter your name"}
		}
		if strings.TrimSpace(st.Customer.Phone) == "" {
			return &ValidationError{Field: "customer-phone", Message: "Enter your phone number"}
		}
	case models.StepCity:
		if st.Delivery.City == "" {
			return &ValidationError{Field: "city", Message: "Select a city"}
		}
	case models.StepLocation:
		if st.Delivery.Type == models.DeliveryPickup {
			if st.Delivery.PickupLocationID == "" {
				return &ValidationError{Field: "pickup-location", Message: "Select a pickup location"}
			}
		} else if strings.TrimSpace(st.Delivery.DeliveryAddress) == "" {
			return &ValidationError{Field: "delivery-address", Message: "Enter a delivery address"}
		}
	}
	return nil
}

func (m *Machine) publishState() {
	m.notify.State("checkout", m.State())
}
