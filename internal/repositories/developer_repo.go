package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/clmblockchain/devpool/internal/database"
	"github.com/clmblockchain/devpool/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DeveloperRepository struct {
	pool *pgxpool.Pool
}

func NewDeveloperRepository(db *database.DB) *DeveloperRepository {
	return &DeveloperRepository{pool: db.Pool}
}

// rowScanner interface for scanning developer rows (single row or rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanDeveloperRow handles nullable fields and populates a DeveloperProfile
func scanDeveloperRow(scanner rowScanner) (*models.DeveloperProfile, error) {
	var dev models.DeveloperProfile
	var ip *string

	err := scanner.Scan(
		&dev.ID, &dev.Name, &dev.Email, &dev.Skills,
		&dev.ExperienceYears, &dev.PortfolioURL, &dev.Location,
		&ip, &dev.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if ip != nil {
		dev.IP = *ip
	}

	return &dev, nil
}

func scanDeveloperRows(rows pgx.Rows) ([]*models.DeveloperProfile, error) {
	defer rows.Close()

	developers := make([]*models.DeveloperProfile, 0)

	for rows.Next() {
		dev, err := scanDeveloperRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan developer: %w", err)
		}
		developers = append(developers, dev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return developers, nil
}

// Insert persists a validated profile. A unique-constraint violation on email
// surfaces as models.ErrDuplicateEmail with no partial effect.
func (r *DeveloperRepository) Insert(ctx context.Context, dev *models.DeveloperProfile) (*models.DeveloperProfile, error) {
	dev.ID = uuid.New().String()
	dev.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO developers (id, name, email, skills, experience_years, portfolio_url, location, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, name, email, skills, experience_years, portfolio_url, location, ip, created_at
	`

	var ip *string
	if dev.IP != "" {
		ip = &dev.IP
	}

	created, err := scanDeveloperRow(r.pool.QueryRow(ctx, query,
		dev.ID, dev.Name, dev.Email, dev.Skills,
		dev.ExperienceYears, dev.PortfolioURL, dev.Location,
		ip, dev.CreatedAt,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ListAll returns every profile, newest first when orderDesc is set.
func (r *DeveloperRepository) ListAll(ctx context.Context, orderDesc bool) ([]*models.DeveloperProfile, error) {
	query := `
		SELECT id, name, email, skills, experience_years, portfolio_url, location, ip, created_at
		FROM developers ORDER BY created_at
	`
	if orderDesc {
		query += " DESC"
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query developers: %w", err)
	}

	return scanDeveloperRows(rows)
}

// DeleteByID removes a profile and reports models.ErrNotFound when no row
// was affected.
func (r *DeveloperRepository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM developers WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Count returns the number of registered profiles.
func (r *DeveloperRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM developers`).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}
