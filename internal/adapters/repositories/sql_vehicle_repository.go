package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/platform/obs"
)

// SQL-backed implementation of the VehicleRepository port. Assignment is a
// single conditional UPDATE so two operators can never hold the same vehicle.
type SQLVehicleRepository struct{ DB *sql.DB }

func NewSQLVehicleRepository(db *sql.DB) *SQLVehicleRepository {
	return &SQLVehicleRepository{DB: db}
}

const vehicleColumns = `
	vehicle_id,
	vehicle_type,
	max_weight_kg,
	max_volume_m3,
	current_location,
	home_location,
	COALESCE(driver_name, ''),
	COALESCE(assigned_shipment_id, '')
`

func (s *SQLVehicleRepository) ListFree(ctx context.Context) (_ []*domain.Vehicle, err error) {
	defer obs.Time(ctx, "vehicles.ListFree")(&err)

	if s.DB == nil {
		return nil, errors.New("vehicle repository: db is nil")
	}

	q := `
	SELECT ` + vehicleColumns + `
	FROM vehicles
	WHERE assigned_shipment_id IS NULL
	ORDER BY vehicle_id;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list free vehicles: query: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list free vehicles: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list free vehicles: row iteration: %w", err)
	}
	return vehicles, nil
}

func (s *SQLVehicleRepository) Find(ctx context.Context, id string) (*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("vehicle repository: db is nil")
	}

	q := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE vehicle_id = $1;`
	v, err := scanVehicle(s.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find vehicle %q: %w", id, domain.ErrUnknownVehicle)
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle %q: %w", id, err)
	}
	return v, nil
}

// Assign performs the compare-and-set: the row is only written while the
// vehicle has no active assignment.
func (s *SQLVehicleRepository) Assign(ctx context.Context, vehicleID, shipmentID string) (err error) {
	defer obs.Time(ctx, "vehicles.Assign")(&err)

	if s.DB == nil {
		return errors.New("vehicle repository: db is nil")
	}

	q := `
	UPDATE vehicles
	SET assigned_shipment_id = $1
	WHERE vehicle_id = $2 AND assigned_shipment_id IS NULL;
	`
	res, err := s.DB.ExecContext(ctx, q, shipmentID, vehicleID)
	if err != nil {
		return fmt.Errorf("assign vehicle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign vehicle: rows affected: %w", err)
	}
	if n == 0 {
		var one int
		err := s.DB.QueryRowContext(ctx, `SELECT 1 FROM vehicles WHERE vehicle_id = $1;`, vehicleID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("assign vehicle %q: %w", vehicleID, domain.ErrUnknownVehicle)
		}
		if err != nil {
			return fmt.Errorf("assign vehicle %q: %w", vehicleID, err)
		}
		return fmt.Errorf("assign vehicle %q: %w", vehicleID, domain.ErrVehicleTaken)
	}
	return nil
}

func (s *SQLVehicleRepository) Unassign(ctx context.Context, vehicleID string) error {
	if s.DB == nil {
		return errors.New("vehicle repository: db is nil")
	}

	q := `UPDATE vehicles SET assigned_shipment_id = NULL WHERE vehicle_id = $1;`
	if _, err := s.DB.ExecContext(ctx, q, vehicleID); err != nil {
		return fmt.Errorf("unassign vehicle: %w", err)
	}
	return nil
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.VehicleID, &v.VehicleType, &v.MaxWeightKg, &v.MaxVolumeM3,
		&v.CurrentLocation, &v.HomeLocation, &v.DriverName, &v.AssignedShipmentID,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
