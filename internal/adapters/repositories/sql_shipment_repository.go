package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/platform/obs"
)

// SQL-backed implementation of the ShipmentRepository port. Route and
// arrival-time lists are stored as jsonb; parcel ownership lives on the
// parcels table so a parcel can only ever point at one shipment.
type SQLShipmentRepository struct{ DB *sql.DB }

func NewSQLShipmentRepository(db *sql.DB) *SQLShipmentRepository {
	return &SQLShipmentRepository{DB: db}
}

func (s *SQLShipmentRepository) Create(ctx context.Context, sh *domain.Shipment) (err error) {
	defer obs.Time(ctx, "shipments.Create")(&err)

	if s.DB == nil {
		return errors.New("shipment repository: db is nil")
	}

	route, err := json.Marshal(sh.Route)
	if err != nil {
		return fmt.Errorf("create shipment: encode route: %w", err)
	}
	arrivals, err := json.Marshal(sh.ArrivalTimes)
	if err != nil {
		return fmt.Errorf("create shipment: encode arrival times: %w", err)
	}

	q := `
	INSERT INTO shipments (
		shipment_id, delivery_class, source, route, arrival_times,
		total_distance_km, total_time_hours, total_weight_kg, total_volume_m3,
		parcel_count, status, confirmed, created_by_center,
		vehicle_id, driver_name, reverse_of, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
	        NULLIF($14, ''), NULLIF($15, ''), NULLIF($16, ''), $17);
	`
	_, err = s.DB.ExecContext(ctx, q,
		sh.ShipmentID, string(sh.DeliveryClass), sh.Source, route, arrivals,
		sh.TotalDistanceKm, sh.TotalTimeHours, sh.TotalWeightKg, sh.TotalVolumeM3,
		sh.ParcelCount, string(sh.Status), sh.Confirmed, sh.CreatedByCenter,
		sh.VehicleID, sh.DriverName, sh.ReverseOf, sh.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create shipment: insert: %w", err)
	}
	return nil
}

const shipmentColumns = `
	shipment_id, delivery_class, source, route, arrival_times,
	total_distance_km, total_time_hours, total_weight_kg, total_volume_m3,
	parcel_count, status, confirmed, created_by_center,
	COALESCE(vehicle_id, ''), COALESCE(driver_name, ''), COALESCE(reverse_of, ''), created_at
`

func (s *SQLShipmentRepository) Find(ctx context.Context, id string) (_ *domain.Shipment, err error) {
	defer obs.Time(ctx, "shipments.Find")(&err)

	if s.DB == nil {
		return nil, errors.New("shipment repository: db is nil")
	}

	q := `SELECT ` + shipmentColumns + ` FROM shipments WHERE shipment_id = $1;`
	sh, err := scanShipment(s.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find shipment %q: %w", id, domain.ErrUnknownShipment)
	}
	if err != nil {
		return nil, fmt.Errorf("find shipment %q: %w", id, err)
	}

	if err := s.attachParcelIDs(ctx, sh); err != nil {
		return nil, fmt.Errorf("find shipment %q: %w", id, err)
	}
	return sh, nil
}

func (s *SQLShipmentRepository) List(ctx context.Context, branch string) (_ []*domain.Shipment, err error) {
	defer obs.Time(ctx, "shipments.List")(&err)

	if s.DB == nil {
		return nil, errors.New("shipment repository: db is nil")
	}

	q := `
	SELECT ` + shipmentColumns + `
	FROM shipments
	WHERE created_by_center = $1 OR source = $1
	ORDER BY created_at DESC;
	`
	rows, err := s.DB.QueryContext(ctx, q, branch)
	if err != nil {
		return nil, fmt.Errorf("list shipments: query: %w", err)
	}
	defer rows.Close()

	shipments := make([]*domain.Shipment, 0, 32)
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("list shipments: %w", err)
		}
		shipments = append(shipments, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: row iteration: %w", err)
	}

	for _, sh := range shipments {
		if err := s.attachParcelIDs(ctx, sh); err != nil {
			return nil, fmt.Errorf("list shipments: %w", err)
		}
	}
	return shipments, nil
}

// UpdateStatus is a conditional transition: the write only lands when the
// shipment is still in the expected status.
func (s *SQLShipmentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ShipmentStatus, confirmed bool) error {
	if s.DB == nil {
		return errors.New("shipment repository: db is nil")
	}

	q := `
	UPDATE shipments
	SET status = $1, confirmed = $2
	WHERE shipment_id = $3 AND status = $4;
	`
	res, err := s.DB.ExecContext(ctx, q, string(to), confirmed, id, string(from))
	if err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update shipment status: rows affected: %w", err)
	}
	if n == 0 {
		return s.missOrConflict(ctx, id)
	}
	return nil
}

// SetVehicle records the assignment and moves the shipment to
// vehicle_assigned, guarded on verified+confirmed.
func (s *SQLShipmentRepository) SetVehicle(ctx context.Context, id, vehicleID, driverName string) error {
	if s.DB == nil {
		return errors.New("shipment repository: db is nil")
	}

	q := `
	UPDATE shipments
	SET vehicle_id = $1, driver_name = NULLIF($2, ''), status = 'vehicle_assigned'
	WHERE shipment_id = $3 AND status = 'verified' AND confirmed;
	`
	res, err := s.DB.ExecContext(ctx, q, vehicleID, driverName, id)
	if err != nil {
		return fmt.Errorf("set shipment vehicle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set shipment vehicle: rows affected: %w", err)
	}
	if n == 0 {
		return s.missOrConflict(ctx, id)
	}
	return nil
}

func (s *SQLShipmentRepository) Delete(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("shipment repository: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM shipments WHERE shipment_id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete shipment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete shipment: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete shipment %q: %w", id, domain.ErrUnknownShipment)
	}
	return nil
}

// missOrConflict distinguishes "no such shipment" from "shipment moved on".
func (s *SQLShipmentRepository) missOrConflict(ctx context.Context, id string) error {
	var one int
	err := s.DB.QueryRowContext(ctx, `SELECT 1 FROM shipments WHERE shipment_id = $1;`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("shipment %q: %w", id, domain.ErrUnknownShipment)
	}
	if err != nil {
		return fmt.Errorf("shipment %q: %w", id, err)
	}
	return fmt.Errorf("shipment %q: %w", id, domain.ErrInvalidTransition)
}

func (s *SQLShipmentRepository) attachParcelIDs(ctx context.Context, sh *domain.Shipment) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT parcel_id FROM parcels WHERE shipment_id = $1 ORDER BY parcel_id;`, sh.ShipmentID)
	if err != nil {
		return fmt.Errorf("load shipment parcels: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0, sh.ParcelCount)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("load shipment parcels: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load shipment parcels: row iteration: %w", err)
	}
	sh.ParcelIDs = ids
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanShipment(row rowScanner) (*domain.Shipment, error) {
	var sh domain.Shipment
	var class, status string
	var route, arrivals []byte

	err := row.Scan(
		&sh.ShipmentID, &class, &sh.Source, &route, &arrivals,
		&sh.TotalDistanceKm, &sh.TotalTimeHours, &sh.TotalWeightKg, &sh.TotalVolumeM3,
		&sh.ParcelCount, &status, &sh.Confirmed, &sh.CreatedByCenter,
		&sh.VehicleID, &sh.DriverName, &sh.ReverseOf, &sh.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(route, &sh.Route); err != nil {
		return nil, fmt.Errorf("decode route: %w", err)
	}
	if err := json.Unmarshal(arrivals, &sh.ArrivalTimes); err != nil {
		return nil, fmt.Errorf("decode arrival times: %w", err)
	}
	sh.DeliveryClass = domain.DeliveryClass(class)
	sh.Status = domain.ShipmentStatus(status)
	return &sh, nil
}
