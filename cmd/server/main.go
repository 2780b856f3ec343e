package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"shipment-consolidation-service/internal/adapters/repositories"
	"shipment-consolidation-service/internal/adapters/session"
	"shipment-consolidation-service/internal/api"
	"shipment-consolidation-service/internal/geo"
	"shipment-consolidation-service/internal/platform/db"
	"shipment-consolidation-service/internal/platform/obs"
	"shipment-consolidation-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (postgres, redis, geo tables) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	geoPath := getEnv("GEO_TABLE_PATH", "data/geo_tables.json")
	seedDir := getEnv("SEED_DIR", "data/seeds")
	port := getEnv("PORT", "8080")

	sqlDB, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := repositories.InitSchema(sqlDB); err != nil {
		log.Fatal(err)
	}
	if err := repositories.SeedFromDir(sqlDB, seedDir); err != nil {
		log.Fatal(err)
	}

	graph, err := geo.Load(geoPath)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	sessions := session.NewRedisSessionStore(redisClient, session.DefaultTTL)

	parcels := repositories.NewSQLParcelRepository(sqlDB)
	shipmentRepo := repositories.NewSQLShipmentRepository(sqlDB)
	vehicles := repositories.NewSQLVehicleRepository(sqlDB)
	branches := repositories.NewSQLBranchRepository(sqlDB)

	shipments := &services.ShipmentService{
		Parcels:   parcels,
		Shipments: shipmentRepo,
		Sessions:  sessions,
		Geo:       graph,
	}
	allocations := &services.AllocationService{
		Vehicles:  vehicles,
		Parcels:   parcels,
		Shipments: shipmentRepo,
		Sessions:  sessions,
		Geo:       graph,
	}

	metrics := obs.NewMetrics("shipment_consolidation")
	router := api.NewRouter(parcels, branches, shipments, allocations, metrics)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
