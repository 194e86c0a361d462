package balance

// Result reports whether a balance-offset payment is satisfiable. It gates
// the submit control but never changes the stored balance; the balance is
// only refreshed from the commerce service after a successful order.
type Result struct {
	Allowed   bool    `json:"allowed"`
	Remaining float64 `json:"remaining"`
	Message   string  `json:"message,omitempty"`
}

// Evaluate checks the pay-with-balance toggle against the full order total.
// With the toggle off the payment is always allowed and no remaining amount
// is reported.
func Evaluate(useBalance bool, cartTotal, deliveryPrice, userBalance float64) Result {
	if !useBalance {
		return Result{Allowed: true}
	}
	remaining := userBalance - (cartTotal + deliveryPrice)
	if remaining < 0 {
		return Result{Allowed: false, Remaining: remaining, Message: "Insufficient balance"}
	}
	return Result{Allowed: true, Remaining: remaining}
}
