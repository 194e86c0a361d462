package commerce

import "shopfront/models"

// InitRequest carries the opaque host-identity payload, passed through to the
// service unmodified. An anonymous init sends an empty body instead.
type InitRequest struct {
	InitData string `json:"initData"`
}

// InitUser is the optional profile record returned by /init.
type InitUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photoUrl"`
}

// InitResponse tolerates absent fields: a missing balance or verification
// flag decodes to the documented defaults (0, false).
type InitResponse struct {
	Balance    float64   `json:"balance"`
	IsVerified bool      `json:"isVerified"`
	User       *InitUser `json:"user,omitempty"`
}

// BasicResponse is the shape of every cart mutation reply.
type BasicResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ProfileResponse is the /user/profile reply.
type ProfileResponse struct {
	Balance    float64              `json:"balance"`
	IsVerified bool                 `json:"isVerified"`
	Orders     []models.OrderRecord `json:"orders"`
}

// PickupLocation is one entry of /pickup-locations. DeliveryPrice is only
// populated for type=delivery lookups.
type PickupLocation struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	DeliveryPrice float64 `json:"deliveryPrice,omitempty"`
}

// OrderRequest is the normalized order submission. Exactly one of
// PickupLocationID and DeliveryAddress is set, matching DeliveryType.
type OrderRequest struct {
	CustomerName     string `json:"customerName"`
	CustomerPhone    string `json:"customerPhone"`
	DeliveryType     string `json:"deliveryType"`
	DeliveryCity     string `json:"deliveryCity"`
	PickupLocationID string `json:"pickupLocationId,omitempty"`
	DeliveryAddress  string `json:"deliveryAddress,omitempty"`
	UseBalance       bool   `json:"useBalance"`
}

// OrderResponse is the /order/create reply.
type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type cartAddRequest struct {
	ProductID int `json:"productId"`
}

type cartUpdateRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type cartRemoveRequest struct {
	ProductID int `json:"productId"`
}
