package repositories

import (
	"context"
	"errors"

	"nilpfstore/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it too, which keeps the repository tests off a live database.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type LicenseRepository interface {
	Upsert(ctx context.Context, license *models.License) error
	GetByReference(ctx context.Context, reference string) (*models.License, error)
	List(ctx context.Context, limit, offset int) ([]*models.License, error)
}

type licenseRepo struct {
	db Database
}

func NewLicenseRepo(db Database) LicenseRepository {
	return &licenseRepo{db: db}
}

// Upsert overwrites any existing row for the reference. Last write wins;
// single-row atomicity is the only concurrency guarantee relied upon.
func (r *licenseRepo) Upsert(ctx context.Context, license *models.License) error {
	query := `
		INSERT INTO licenses (reference, created_at, payer_email, payer_name, property_address, property_state, license_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (reference) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			payer_email = EXCLUDED.payer_email,
			payer_name = EXCLUDED.payer_name,
			property_address = EXCLUDED.property_address,
			property_state = EXCLUDED.property_state,
			license_key = EXCLUDED.license_key
	`
	_, err := r.db.Exec(ctx, query, license.Reference, license.CreatedAt, license.PayerEmail, license.PayerName, license.PropertyAddress, license.PropertyState, license.LicenseKey)
	return err
}

// GetByReference returns (nil, nil) when no license exists for the
// reference. The caller decides whether that is an error.
func (r *licenseRepo) GetByReference(ctx context.Context, reference string) (*models.License, error) {
	license := &models.License{}
	query := `
		SELECT reference, created_at, payer_email, payer_name, property_address, property_state, license_key
		FROM licenses
		WHERE reference = $1
	`
	err := r.db.QueryRow(ctx, query, reference).Scan(&license.Reference, &license.CreatedAt, &license.PayerEmail, &license.PayerName, &license.PropertyAddress, &license.PropertyState, &license.LicenseKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return license, nil
}

func (r *licenseRepo) List(ctx context.Context, limit, offset int) ([]*models.License, error) {
	query := `
		SELECT reference, created_at, payer_email, payer_name, property_address, property_state, license_key
		FROM licenses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var licenses []*models.License
	for rows.Next() {
		license := &models.License{}
		if err := rows.Scan(&license.Reference, &license.CreatedAt, &license.PayerEmail, &license.PayerName, &license.PropertyAddress, &license.PropertyState, &license.LicenseKey); err != nil {
			return nil, err
		}
		licenses = append(licenses, license)
	}
	return licenses, rows.Err()
}
