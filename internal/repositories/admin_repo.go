package repositories

import (
	"context"

	"github.com/clmblockchain/devpool/internal/database"
	"github.com/clmblockchain/devpool/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{pool: db.Pool}
}

// GetByUsername returns models.ErrNotFound when no such account exists.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.AdminAccount, error) {
	query := `SELECT id, username, hashed_password FROM admin WHERE username = $1`

	var admin models.AdminAccount
	err := r.pool.QueryRow(ctx, query, username).Scan(&admin.ID, &admin.Username, &admin.HashedPassword)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &admin, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin`).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

// Create inserts a new admin account. Used only by the startup bootstrap.
func (r *AdminRepository) Create(ctx context.Context, username, hashedPassword string) error {
	query := `INSERT INTO admin (username, hashed_password) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, query, username, hashedPassword); err != nil {
		return database.MapPostgresError(err)
	}

	return nil
}
