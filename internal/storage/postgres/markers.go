package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zhenghongliu48-sys/mymap/internal/models"
	"github.com/zhenghongliu48-sys/mymap/internal/storage"
)

const selectMarker = `
	SELECT m.id, m.name, m.description, m.lat, m.lng, m.user_id, u.username
	FROM markers m
	LEFT JOIN users u ON u.id = m.user_id
`

// queryRower is satisfied by *pgxpool.Pool and pgx.Tx.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanMarker(row pgx.Row) (*models.Marker, error) {
	var m models.Marker
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Lat, &m.Lng, &m.OwnerID, &m.OwnerName)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func getMarker(ctx context.Context, q queryRower, id int64, suffix string) (*models.Marker, error) {
	m, err := scanMarker(q.QueryRow(ctx, selectMarker+" WHERE m.id = $1"+suffix, id))
	if isNoRows(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get marker: %w", err)
	}
	return m, nil
}

// ListMarkers retrieves all markers, highest ID first.
func (s *PostgresStore) ListMarkers(ctx context.Context) ([]*models.Marker, error) {
	rows, err := s.pool.Query(ctx, selectMarker+" ORDER BY m.id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list markers: %w", err)
	}
	defer rows.Close()

	markers := []*models.Marker{}
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan marker: %w", err)
		}
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate markers: %w", err)
	}
	return markers, nil
}

// GetMarker retrieves a single marker by ID.
func (s *PostgresStore) GetMarker(ctx context.Context, id int64) (*models.Marker, error) {
	return getMarker(ctx, s.pool, id, "")
}

// CreateMarker inserts a marker and fills in its ID and owner name.
func (s *PostgresStore) CreateMarker(ctx context.Context, marker *models.Marker) error {
	var id int64
	err := s.pool.QueryRow(ctx,
		"INSERT INTO markers (name, description, lat, lng, user_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		marker.Name, marker.Description, marker.Lat, marker.Lng, marker.OwnerID,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert marker: %w", err)
	}

	created, err := getMarker(ctx, s.pool, id, "")
	if err != nil {
		return err
	}
	*marker = *created
	return nil
}

// UpdateMarker locks the row, runs fn against it and saves the result.
func (s *PostgresStore) UpdateMarker(ctx context.Context, id int64, fn func(*models.Marker) error) (*models.Marker, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	marker, err := getMarker(ctx, tx, id, " FOR UPDATE OF m")
	if err != nil {
		return nil, err
	}

	if err := fn(marker); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		"UPDATE markers SET name = $1, description = $2, lat = $3, lng = $4 WHERE id = $5",
		marker.Name, marker.Description, marker.Lat, marker.Lng, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update marker: %w", err)
	}

	updated, err := getMarker(ctx, tx, id, "")
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// DeleteMarker locks the row, lets check veto and removes it.
func (s *PostgresStore) DeleteMarker(ctx context.Context, id int64, check func(*models.Marker) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	marker, err := getMarker(ctx, tx, id, " FOR UPDATE OF m")
	if err != nil {
		return err
	}

	if check != nil {
		if err := check(marker); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM markers WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete marker: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
