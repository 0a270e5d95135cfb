package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seuros/ecodash/internal/wastedata"
)

// WasteRepository stores waste entries in the waste_data table.
type WasteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ wastedata.Repository = (*WasteRepository)(nil)

// NewWasteRepository returns a repository backed by db.
func NewWasteRepository(db *sql.DB) *WasteRepository {
	return &WasteRepository{db: db, now: time.Now}
}

const wasteColumns = `id, to_char(date, 'YYYY-MM-DD'), pet_amount, cardboard_amount, cans_amount,
	glass_amount, other_amount, participation_rate, misclassification_rate,
	campaign_reach, costs, COALESCE(notes, ''), created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWasteEntry(row rowScanner) (wastedata.WasteEntry, error) {
	var e wastedata.WasteEntry
	err := row.Scan(
		&e.ID, &e.Date, &e.PetAmount, &e.CardboardAmount, &e.CansAmount,
		&e.GlassAmount, &e.OtherAmount, &e.ParticipationRate, &e.MisclassificationRate,
		&e.CampaignReach, &e.Costs, &e.Notes, &e.CreatedAt,
	)
	return e, err
}

func nullableNotes(notes string) any {
	if notes == "" {
		return nil
	}
	return notes
}

// List returns all entries, newest date first.
func (r *WasteRepository) List(ctx context.Context) ([]wastedata.WasteEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+wasteColumns+` FROM waste_data ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query waste data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []wastedata.WasteEntry{}
	for rows.Next() {
		e, err := scanWasteEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan waste entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate waste data: %w", err)
	}
	return entries, nil
}

func (r *WasteRepository) Get(ctx context.Context, id string) (wastedata.WasteEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return wastedata.WasteEntry{}, wastedata.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+wasteColumns+` FROM waste_data WHERE id = $1`, id)
	e, err := scanWasteEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return wastedata.WasteEntry{}, wastedata.ErrNotFound
	}
	if err != nil {
		return wastedata.WasteEntry{}, fmt.Errorf("failed to load waste entry: %w", err)
	}
	return e, nil
}

// Create inserts e under a new id.
func (r *WasteRepository) Create(ctx context.Context, e wastedata.WasteEntry) (wastedata.WasteEntry, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = r.now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO waste_data (id, date, pet_amount, cardboard_amount, cans_amount,
			glass_amount, other_amount, participation_rate, misclassification_rate,
			campaign_reach, costs, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID, e.Date, e.PetAmount, e.CardboardAmount, e.CansAmount,
		e.GlassAmount, e.OtherAmount, e.ParticipationRate, e.MisclassificationRate,
		e.CampaignReach, e.Costs, nullableNotes(e.Notes), e.CreatedAt)
	if err != nil {
		return wastedata.WasteEntry{}, fmt.Errorf("failed to insert waste entry: %w", err)
	}
	return e, nil
}

// Update overwrites every editable column of the entry with e.ID.
func (r *WasteRepository) Update(ctx context.Context, e wastedata.WasteEntry) (wastedata.WasteEntry, error) {
	if _, err := uuid.Parse(e.ID); err != nil {
		return wastedata.WasteEntry{}, wastedata.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`UPDATE waste_data SET date = $2, pet_amount = $3, cardboard_amount = $4,
			cans_amount = $5, glass_amount = $6, other_amount = $7,
			participation_rate = $8, misclassification_rate = $9,
			campaign_reach = $10, costs = $11, notes = $12
		 WHERE id = $1
		 RETURNING created_at`,
		e.ID, e.Date, e.PetAmount, e.CardboardAmount, e.CansAmount,
		e.GlassAmount, e.OtherAmount, e.ParticipationRate, e.MisclassificationRate,
		e.CampaignReach, e.Costs, nullableNotes(e.Notes))
	if err := row.Scan(&e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wastedata.WasteEntry{}, wastedata.ErrNotFound
		}
		return wastedata.WasteEntry{}, fmt.Errorf("failed to update waste entry: %w", err)
	}
	return e, nil
}

func (r *WasteRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return wastedata.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM waste_data WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete waste entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete waste entry: %w", err)
	}
	if n == 0 {
		return wastedata.ErrNotFound
	}
	return nil
}
