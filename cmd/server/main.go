package main

import (
	"log"
	"net/http"

	"medwaste_tracker/internal/config"
	"medwaste_tracker/internal/controllers"
	"medwaste_tracker/internal/engine"
	"medwaste_tracker/internal/location"
	"medwaste_tracker/internal/logger"
	"medwaste_tracker/internal/middleware"
	"medwaste_tracker/internal/routes"
	"medwaste_tracker/internal/storage"
	"medwaste_tracker/internal/tracking"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect backing services
	config.InitDB()
	config.InitRedis()
	config.InitNATS()

	// Wire the route engine
	gate := location.NewGate(config.Redis, config.LocationMaxAge())
	recorder := tracking.NewRecorder(config.DB, config.NATS)
	store := storage.NewGormStore(config.DB)
	eng := engine.New(store, gate, recorder, engine.Config{
		StrictStopOrder: config.StrictStopOrder(),
	})
	controllers.SetEngine(eng)
	controllers.SetGate(gate)

	// Setup Gin router (recovery + request logging registered inside)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
