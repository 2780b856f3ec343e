package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipment-consolidation-service/internal/domain"
)

// SQL-backed implementation of the BranchRepository port.
type SQLBranchRepository struct{ DB *sql.DB }

func NewSQLBranchRepository(db *sql.DB) *SQLBranchRepository {
	return &SQLBranchRepository{DB: db}
}

func (s *SQLBranchRepository) ListBranches(ctx context.Context) ([]*domain.Branch, error) {
	if s.DB == nil {
		return nil, errors.New("branch repository: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT branch_id, location FROM branches ORDER BY branch_id;`)
	if err != nil {
		return nil, fmt.Errorf("list branches: query: %w", err)
	}
	defer rows.Close()

	branches := make([]*domain.Branch, 0, 16)
	for rows.Next() {
		var b domain.Branch
		if err := rows.Scan(&b.BranchID, &b.Location); err != nil {
			return nil, fmt.Errorf("list branches: scan: %w", err)
		}
		branches = append(branches, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list branches: row iteration: %w", err)
	}
	return branches, nil
}
