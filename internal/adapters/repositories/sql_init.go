package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shipment-consolidation-service/internal/domain"
)

// Initialize the database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: db is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createBranches := `
	CREATE TABLE IF NOT EXISTS branches (
		branch_id SERIAL PRIMARY KEY,
		location TEXT NOT NULL UNIQUE
	);
	`

	createParcels := `
	CREATE TABLE IF NOT EXISTS parcels (
		parcel_id INTEGER PRIMARY KEY,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		size TEXT NOT NULL,
		item_type TEXT NOT NULL,
		weight_kg DOUBLE PRECISION NOT NULL,
		volume_m3 DOUBLE PRECISION NOT NULL,
		delivery_class TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'registered',
		shipment_id TEXT
	);
	`

	createShipments := `
	CREATE TABLE IF NOT EXISTS shipments (
		shipment_id TEXT PRIMARY KEY,
		delivery_class TEXT NOT NULL,
		source TEXT NOT NULL,
		route JSONB NOT NULL,
		arrival_times JSONB NOT NULL,
		total_distance_km DOUBLE PRECISION NOT NULL,
		total_time_hours DOUBLE PRECISION NOT NULL,
		total_weight_kg DOUBLE PRECISION NOT NULL,
		total_volume_m3 DOUBLE PRECISION NOT NULL,
		parcel_count INTEGER NOT NULL,
		status TEXT NOT NULL,
		confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		created_by_center TEXT NOT NULL,
		vehicle_id TEXT,
		driver_name TEXT,
		reverse_of TEXT,
		created_at TIMESTAMPTZ NOT NULL
	);
	`

	createVehicles := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id TEXT PRIMARY KEY,
		vehicle_type TEXT NOT NULL,
		max_weight_kg DOUBLE PRECISION NOT NULL,
		max_volume_m3 DOUBLE PRECISION NOT NULL,
		current_location TEXT NOT NULL,
		home_location TEXT NOT NULL,
		driver_name TEXT,
		assigned_shipment_id TEXT
	);
	`

	createIndexes := `
	CREATE INDEX IF NOT EXISTS idx_parcels_pool ON parcels(origin, status) WHERE shipment_id IS NULL;
	CREATE INDEX IF NOT EXISTS idx_parcels_shipment ON parcels(shipment_id);
	CREATE INDEX IF NOT EXISTS idx_vehicles_free ON vehicles(current_location) WHERE assigned_shipment_id IS NULL;
	`

	statements := []string{createBranches, createParcels, createShipments, createVehicles, createIndexes}
	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

type BranchSeed struct {
	Location string `json:"location"`
}

type ParcelSeed struct {
	ParcelID      int    `json:"parcel_id"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Size          string `json:"size"`
	ItemType      string `json:"item_type"`
	DeliveryClass string `json:"delivery_class"`
}

type VehicleSeed struct {
	VehicleID       string  `json:"vehicle_id"`
	VehicleType     string  `json:"vehicle_type"`
	MaxWeightKg     float64 `json:"max_weight_kg"`
	MaxVolumeM3     float64 `json:"max_volume_m3"`
	CurrentLocation string  `json:"current_location"`
	HomeLocation    string  `json:"home_location"`
	DriverName      string  `json:"driver_name"`
}

// SeedFromDir populates branches, parcels and vehicles from the JSON files in
// a seed directory. Existing rows are left alone so restarts are safe.
func SeedFromDir(db *sql.DB, dir string) error {
	if err := seedBranches(db, filepath.Join(dir, "branches.json")); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedParcels(db, filepath.Join(dir, "parcels.json")); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedVehicles(db, filepath.Join(dir, "vehicles.json")); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func seedBranches(db *sql.DB, path string) error {
	var seeds []BranchSeed
	if err := readSeed(path, &seeds); err != nil {
		return err
	}

	q := `INSERT INTO branches (location) VALUES ($1) ON CONFLICT (location) DO NOTHING;`
	for i, b := range seeds {
		loc := strings.TrimSpace(b.Location)
		if loc == "" {
			return fmt.Errorf("branches: empty location at index %d", i)
		}
		if _, err := db.Exec(q, loc); err != nil {
			return fmt.Errorf("branches: insert %q: %w", loc, err)
		}
	}
	return nil
}

func seedParcels(db *sql.DB, path string) error {
	var seeds []ParcelSeed
	if err := readSeed(path, &seeds); err != nil {
		return err
	}

	q := `
	INSERT INTO parcels (parcel_id, origin, destination, size, item_type, weight_kg, volume_m3, delivery_class, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'registered')
	ON CONFLICT (parcel_id) DO NOTHING;
	`
	for i, p := range seeds {
		if p.ParcelID <= 0 {
			return fmt.Errorf("parcels: invalid parcel_id at index %d: %d", i, p.ParcelID)
		}
		size, ok := domain.ParcelSizes[strings.ToLower(p.Size)]
		if !ok {
			return fmt.Errorf("parcels: parcel %d has unknown size %q", p.ParcelID, p.Size)
		}
		class, err := domain.ParseDeliveryClass(p.DeliveryClass)
		if err != nil {
			return fmt.Errorf("parcels: parcel %d: %w", p.ParcelID, err)
		}
		_, err = db.Exec(q, p.ParcelID, p.Origin, p.Destination, strings.ToLower(p.Size),
			p.ItemType, size.WeightKg, size.VolumeM3, string(class))
		if err != nil {
			return fmt.Errorf("parcels: insert parcel %d: %w", p.ParcelID, err)
		}
	}
	return nil
}

func seedVehicles(db *sql.DB, path string) error {
	var seeds []VehicleSeed
	if err := readSeed(path, &seeds); err != nil {
		return err
	}

	q := `
	INSERT INTO vehicles (vehicle_id, vehicle_type, max_weight_kg, max_volume_m3, current_location, home_location, driver_name)
	VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
	ON CONFLICT (vehicle_id) DO NOTHING;
	`
	for i, v := range seeds {
		if strings.TrimSpace(v.VehicleID) == "" {
			return fmt.Errorf("vehicles: empty vehicle_id at index %d", i)
		}
		_, err := db.Exec(q, v.VehicleID, v.VehicleType, v.MaxWeightKg, v.MaxVolumeM3,
			v.CurrentLocation, v.HomeLocation, v.DriverName)
		if err != nil {
			return fmt.Errorf("vehicles: insert %q: %w", v.VehicleID, err)
		}
	}
	return nil
}

func readSeed(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}
	return nil
}
