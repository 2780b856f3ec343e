package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/platform/obs"
)

// SQL-backed implementation of the ParcelRepository port.
type SQLParcelRepository struct{ DB *sql.DB }

func NewSQLParcelRepository(db *sql.DB) *SQLParcelRepository {
	return &SQLParcelRepository{DB: db}
}

const parcelColumns = `
	parcel_id,
	origin,
	destination,
	size,
	item_type,
	weight_kg,
	volume_m3,
	delivery_class,
	status,
	COALESCE(shipment_id, '')
`

// ListUnassigned returns the pool of a branch: registered parcels with no
// owning shipment.
func (s *SQLParcelRepository) ListUnassigned(ctx context.Context, branch string) (_ []*domain.Parcel, err error) {
	defer obs.Time(ctx, "parcels.ListUnassigned")(&err)

	if s.DB == nil {
		return nil, errors.New("parcel repository: db is nil")
	}

	q := `
	SELECT ` + parcelColumns + `
	FROM parcels
	WHERE origin = $1 AND status = 'registered' AND shipment_id IS NULL
	ORDER BY parcel_id;
	`
	rows, err := s.DB.QueryContext(ctx, q, branch)
	if err != nil {
		return nil, fmt.Errorf("list unassigned parcels: query: %w", err)
	}
	defer rows.Close()

	return scanParcels(rows)
}

// FindByIDs returns the parcels with the given ids.
func (s *SQLParcelRepository) FindByIDs(ctx context.Context, ids []int) (_ []*domain.Parcel, err error) {
	defer obs.Time(ctx, "parcels.FindByIDs")(&err)

	if s.DB == nil {
		return nil, errors.New("parcel repository: db is nil")
	}
	if len(ids) == 0 {
		return []*domain.Parcel{}, nil
	}

	q := `
	SELECT ` + parcelColumns + `
	FROM parcels
	WHERE parcel_id = ANY($1::int[])
	ORDER BY parcel_id;
	`
	rows, err := s.DB.QueryContext(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("find parcels: query: %w", err)
	}
	defer rows.Close()

	return scanParcels(rows)
}

// MarkAssigned detaches pooled parcels and records their owning shipment.
// Every id must still be in the pool or the whole call fails.
func (s *SQLParcelRepository) MarkAssigned(ctx context.Context, ids []int, shipmentID string) error {
	if s.DB == nil {
		return errors.New("parcel repository: db is nil")
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mark parcels assigned: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := `
	UPDATE parcels
	SET status = 'assigned', shipment_id = $1
	WHERE parcel_id = ANY($2::int[]) AND status = 'registered' AND shipment_id IS NULL;
	`
	res, err := tx.ExecContext(ctx, q, shipmentID, ids)
	if err != nil {
		return fmt.Errorf("mark parcels assigned: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark parcels assigned: rows affected: %w", err)
	}
	if int(n) != len(ids) {
		return fmt.Errorf("mark parcels assigned: %d of %d parcels were still pooled", n, len(ids))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mark parcels assigned: commit: %w", err)
	}
	return nil
}

// Release returns parcels to the pool of their origin branch.
func (s *SQLParcelRepository) Release(ctx context.Context, ids []int) error {
	if s.DB == nil {
		return errors.New("parcel repository: db is nil")
	}
	if len(ids) == 0 {
		return nil
	}

	q := `
	UPDATE parcels
	SET status = 'registered', shipment_id = NULL
	WHERE parcel_id = ANY($1::int[]);
	`
	if _, err := s.DB.ExecContext(ctx, q, ids); err != nil {
		return fmt.Errorf("release parcels: update: %w", err)
	}
	return nil
}

func scanParcels(rows *sql.Rows) ([]*domain.Parcel, error) {
	parcels := make([]*domain.Parcel, 0, 64)
	for rows.Next() {
		var p domain.Parcel
		var class string
		var status string
		err := rows.Scan(
			&p.ParcelID, &p.Origin, &p.Destination, &p.Size, &p.ItemType,
			&p.WeightKg, &p.VolumeM3, &class, &status, &p.ShipmentID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan parcel row: %w", err)
		}
		p.DeliveryClass = domain.DeliveryClass(class)
		p.Status = domain.ParcelStatus(status)
		parcels = append(parcels, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("parcel row iteration: %w", err)
	}
	return parcels, nil
}
