package repositories

import (
	"context"
	"time"

	"nilpfstore/internal/models"

	"github.com/google/uuid"
)

type IssuanceEventRepository interface {
	Create(ctx context.Context, event *models.IssuanceEvent) error
	ListRecent(ctx context.Context, limit, offset int) ([]*models.IssuanceEvent, error)
	ListByReference(ctx context.Context, reference string) ([]*models.IssuanceEvent, error)
}

type issuanceEventRepo struct {
	db Database
}

func NewIssuanceEventRepo(db Database) IssuanceEventRepository {
	return &issuanceEventRepo{db: db}
}

func (r *issuanceEventRepo) Create(ctx context.Context, event *models.IssuanceEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO issuance_events (id, reference, outcome, payer_email, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, event.ID, event.Reference, event.Outcome, event.PayerEmail, event.Detail, event.CreatedAt)
	return err
}

func (r *issuanceEventRepo) ListRecent(ctx context.Context, limit, offset int) ([]*models.IssuanceEvent, error) {
	query := `
		SELECT id, reference, outcome, payer_email, detail, created_at
		FROM issuance_events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.IssuanceEvent
	for rows.Next() {
		event := &models.IssuanceEvent{}
		if err := rows.Scan(&event.ID, &event.Reference, &event.Outcome, &event.PayerEmail, &event.Detail, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *issuanceEventRepo) ListByReference(ctx context.Context, reference string) ([]*models.IssuanceEvent, error) {
	query := `
		SELECT id, reference, outcome, payer_email, detail, created_at
		FROM issuance_events
		WHERE reference = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.IssuanceEvent
	for rows.Next() {
		event := &models.IssuanceEvent{}
		if err := rows.Scan(&event.ID, &event.Reference, &event.Outcome, &event.PayerEmail, &event.Detail, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
