package routes

import (
	"shopfront/cart"
	"shopfront/checkout"
	"shopfront/notify"
	"shopfront/profile"
	"shopfront/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddCartRoutes(router *httprouter.Router, h *cart.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/cart", h.GetCart)
	router.POST("/api/cart/add", rl.Limit(h.AddItem))
	router.POST("/api/cart/update", rl.Limit(h.UpdateQuantity))
	router.POST("/api/cart/remove", rl.Limit(h.RemoveItem))
}

func AddCheckoutRoutes(router *httprouter.Router, h *checkout.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/checkout/open", h.Open)
	router.POST("/api/checkout/close", h.Close)
	router.GET("/api/checkout/state", h.GetState)
	router.GET("/api/checkout/summary", h.GetSummary)
	router.POST("/api/checkout/advance", h.Advance)
	router.POST("/api/checkout/retreat", h.Retreat)
	router.POST("/api/checkout/customer", h.SetCustomer)
	router.POST("/api/checkout/delivery-type", h.SetDeliveryType)
	router.POST("/api/checkout/city", h.SelectCity)
	router.POST("/api/checkout/location", h.SetLocation)
	router.POST("/api/checkout/use-balance", h.SetUseBalance)
	router.POST("/api/checkout/submit", rl.Limit(h.Submit))
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handler) {
	router.GET("/api/profile", h.GetProfile)
}

func AddNotifyRoutes(router *httprouter.Router, hub *notify.Hub) {
	router.GET("/ws", notify.WebSocketHandler(hub))
}
