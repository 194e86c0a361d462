package models

// StepID identifies one step of the checkout wizard.
type StepID string

const (
	StepCustomer StepID = "customer"
	StepCity     StepID = "city"
	StepLocation StepID = "location"
	StepSummary  StepID = "summary"
)

// DeliveryType is the fulfillment mode of an order.
type DeliveryType string

const (
	DeliveryPickup  DeliveryType = "pickup"
	DeliveryCourier DeliveryType = "delivery"
)

// CustomerInfo holds the customer step fields.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// DeliverySelection is the fulfillment choice built up across the wizard.
// DeliveryPrice stays 0 unless Type is courier delivery and a city is set,
// in which case it is fetched from the commerce service and cached until the
// city or type changes.
type DeliverySelection struct {
	Type             DeliveryType `json:"type"`
	City             string       `json:"city,omitempty"`
	PickupLocationID string       `json:"pickupLocationId,omitempty"`
	DeliveryAddress  string       `json:"deliveryAddress,omitempty"`
	DeliveryPrice    float64      `json:"deliveryPrice"`
}

// CheckoutState is the full wizard state. It is created when checkout opens,
// reset to defaults on every open, and discarded on close or a successful
// submission.
type CheckoutState struct {
	Step     StepID            `json:"step"`
	Customer CustomerInfo      `json:"customer"`
	Delivery DeliverySelection `json:"delivery"`
	Verified bool              `json:"verified"`
}
