package profile

import (
	"shopfront/models"
	"shopfront/utils"
)

// OrderView is an order prepared for display: mapped status label, formatted
// date, and a one-line description of how the order is fulfilled.
type OrderView struct {
	ID             int     `json:"id"`
	TotalAmount    float64 `json:"totalAmount"`
	CashbackEarned float64 `json:"cashbackEarned"`
	Status         string  `json:"status"`
	StatusLabel    string  `json:"statusLabel"`
	Date           string  `json:"date"`
	DeliveryInfo   string  `json:"deliveryInfo"`
}

func NewOrderView(o models.OrderRecord) OrderView {
	return OrderView{
		ID:             o.ID,
		TotalAmount:    o.TotalAmount,
		CashbackEarned: o.CashbackEarned,
		Status:         o.Status,
		StatusLabel:    StatusLabel(o.Status),
		Date:           utils.FormatOrderDate(o.CreatedAt),
		DeliveryInfo:   DeliveryInfo(o),
	}
}

// StatusLabel maps an order status to its display text; anything unknown is
// shown as "Processing".
func StatusLabel(status string) string {
	switch status {
	case "completed":
		return "Completed"
	case "pending":
		return "Pending"
	case "cancelled":
		return "Cancelled"
	default:
		return "Processing"
	}
}

func DeliveryInfo(o models.OrderRecord) string {
	if o.DeliveryType == string(models.DeliveryPickup) {
		if o.PickupLocation == "" {
			return "Pickup location not specified"
		}
		return o.PickupLocation
	}
	if o.DeliveryCity != "" {
		return "Delivery to " + o.DeliveryCity
	}
	return "Delivery"
}
