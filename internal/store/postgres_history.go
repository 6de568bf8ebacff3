package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"AMESAI_BACK-END/internal/models"
)

// PostgresHistory implements History on top of a pgx connection pool.
type PostgresHistory struct {
	db *pgxpool.Pool
}

// NewPostgresHistory creates a new PostgresHistory instance
func NewPostgresHistory(db *pgxpool.Pool) *PostgresHistory {
	return &PostgresHistory{db: db}
}

func (s *PostgresHistory) Record(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.PredictedOn.IsZero() {
		entry.PredictedOn = time.Now()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO history (id, user_id, overall_qual, gr_liv_area, garage_cars, total_bsmt_sf, year_built, prediction, predicted_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.UserID, entry.OverallQual, entry.GrLivArea, entry.GarageCars,
		entry.TotalBsmtSF, entry.YearBuilt, entry.Prediction, entry.PredictedOn)
	if err != nil {
		return nil, fmt.Errorf("insert history entry: %w", err)
	}

	return entry, nil
}

func (s *PostgresHistory) List(ctx context.Context, ownerID uuid.UUID, filters Filters, sort Sort) ([]models.HistoryEntry, error) {
	query, args := buildListQuery(ownerID, filters, sort)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OverallQual, &e.GrLivArea, &e.GarageCars,
			&e.TotalBsmtSF, &e.YearBuilt, &e.Prediction, &e.PredictedOn); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return entries, nil
}

func (s *PostgresHistory) Get(ctx context.Context, id uuid.UUID) (*models.HistoryEntry, error) {
	var e models.HistoryEntry
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, overall_qual, gr_liv_area, garage_cars, total_bsmt_sf, year_built, prediction, predicted_on
		 FROM history WHERE id = $1`,
		id).Scan(&e.ID, &e.UserID, &e.OverallQual, &e.GrLivArea, &e.GarageCars,
		&e.TotalBsmtSF, &e.YearBuilt, &e.Prediction, &e.PredictedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select history entry: %w", err)
	}
	return &e, nil
}

// Delete removes one entry after checking ownership. The read and the delete
// run in one transaction so the owner cannot change in between.
func (s *PostgresHistory) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var ownerID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT user_id FROM history WHERE id = $1`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("select history owner: %w", err)
	}
	if ownerID != requesterID {
		return ErrForbidden
	}

	if _, err := tx.Exec(ctx, `DELETE FROM history WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}

	return tx.Commit(ctx)
}
