package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zhenghongliu48-sys/mymap/internal/models"
	"github.com/zhenghongliu48-sys/mymap/internal/storage"
)

const selectMarker = `
	SELECT m.id, m.name, m.description, m.lat, m.lng, m.user_id, u.username
	FROM markers m
	LEFT JOIN users u ON u.id = m.user_id
`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarker(row rowScanner) (*models.Marker, error) {
	var (
		m           models.Marker
		description sql.NullString
		ownerID     sql.NullInt64
		ownerName   sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Name, &description, &m.Lat, &m.Lng, &ownerID, &ownerName); err != nil {
		return nil, err
	}
	if description.Valid {
		m.Description = &description.String
	}
	if ownerID.Valid {
		m.OwnerID = &ownerID.Int64
	}
	if ownerName.Valid {
		m.OwnerName = &ownerName.String
	}
	return &m, nil
}

func getMarker(ctx context.Context, q querier, id int64) (*models.Marker, error) {
	m, err := scanMarker(q.QueryRowContext(ctx, selectMarker+" WHERE m.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get marker: %w", err)
	}
	return m, nil
}

// ListMarkers retrieves all markers, highest ID first.
func (s *SQLiteStore) ListMarkers(ctx context.Context) ([]*models.Marker, error) {
	rows, err := s.db.QueryContext(ctx, selectMarker+" ORDER BY m.id DESC")
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
func (s *SQLiteStore) GetMarker(ctx context.Context, id int64) (*models.Marker, error) {
	return getMarker(ctx, s.db, id)
}

// CreateMarker inserts a marker and fills in its ID and owner name.
func (s *SQLiteStore) CreateMarker(ctx context.Context, marker *models.Marker) error {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO markers (name, description, lat, lng, user_id) VALUES (?, ?, ?, ?, ?)",
		marker.Name, marker.Description, marker.Lat, marker.Lng, marker.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert marker: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read marker id: %w", err)
	}

	created, err := getMarker(ctx, s.db, id)
	if err != nil {
		return err
	}
	*marker = *created
	return nil
}

// UpdateMarker runs fn against the stored marker and saves the result.
func (s *SQLiteStore) UpdateMarker(ctx context.Context, id int64, fn func(*models.Marker) error) (*models.Marker, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	marker, err := getMarker(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(marker); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE markers SET name = ?, description = ?, lat = ?, lng = ? WHERE id = ?",
		marker.Name, marker.Description, marker.Lat, marker.Lng, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update marker: %w", err)
	}

	updated, err := getMarker(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

// DeleteMarker removes a marker permanently.
func (s *SQLiteStore) DeleteMarker(ctx context.Context, id int64, check func(*models.Marker) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	marker, err := getMarker(ctx, tx, id)
	if err != nil {
		return err
	}

	if check != nil {
		if err := check(marker); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM markers WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete marker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
