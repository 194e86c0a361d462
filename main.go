package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopfront/cart"
	"shopfront/checkout"
	"shopfront/commerce"
	"shopfront/identity"
	"shopfront/notify"
	"shopfront/profile"
	"shopfront/ratelim"
	"shopfront/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// setupRouter wires every facade route to its handler.
func setupRouter(rateLimiter *ratelim.RateLimiter, cartH *cart.Handler, checkoutH *checkout.Handler, profileH *profile.Handler, hub *notify.Hub) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddCartRoutes(router, cartH, rateLimiter)
	routes.AddCheckoutRoutes(router, checkoutH, rateLimiter)
	routes.AddProfileRoutes(router, profileH)
	routes.AddNotifyRoutes(router, hub)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	// read port
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	apiBase := os.Getenv("COMMERCE_API_URL")
	if apiBase == "" {
		apiBase = "http://localhost:5000/api"
	}
	api := commerce.NewClient(apiBase)

	// notification hub for connected renderers
	hub := notify.NewHub()
	go hub.Run()

	// resolve identity once at startup; this never fails, only degrades
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	user := identity.NewResolver(api, identity.EnvBridge{}).Resolve(initCtx)
	cancelInit()
	log.Printf("session started for %s (balance %.2f, verified %v)", user.DisplayName, user.Balance, user.IsVerified)

	account := profile.NewStore(api, user)
	cartModel := cart.NewModel(api, hub)
	machine := checkout.NewMachine(api, cartModel, account, hub)

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(rateLimiter,
		cart.NewHandler(cartModel),
		checkout.NewHandler(machine),
		profile.NewHandler(account),
		hub,
	)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down notification hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Controller listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	log.Println("✅ Controller stopped cleanly")
}
