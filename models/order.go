package models

import "time"

// OrderRecord is a past order as returned by the profile endpoint.
type OrderRecord struct {
	ID              int       `json:"id"`
	TotalAmount     float64   `json:"totalAmount"`
	CashbackEarned  float64   `json:"cashbackEarned"`
	Status          string    `json:"status"` // "completed", "pending", "cancelled", ...
	CreatedAt       time.Time `json:"createdAt"`
	DeliveryType    string    `json:"deliveryType"`
	DeliveryCity    string    `json:"deliveryCity,omitempty"`
	PickupLocation  string    `json:"pickupLocation,omitempty"`
	DeliveryAddress string    `json:"deliveryAddress,omitempty"`
}
