package models

// CartLineItem is one line of the server-side cart. LineTotal and the
// snapshot Total are computed by the commerce service, never client-side.
type CartLineItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"total"`
}

// CartSnapshot is the local projection of the server cart, replaced wholesale
// on every load.
type CartSnapshot struct {
	Items []CartLineItem `json:"items"`
	Total float64        `json:"total"`
}
