package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusdesk/helpdesk-service/internal/domain"
)

// ProfileRepository defines persistence access for user profiles.
type ProfileRepository interface {
	GetByAuthUID(ctx context.Context, authUID string) (*domain.UserProfile, error)
	GetByID(ctx context.Context, id int64) (*domain.UserProfile, error)
	ListByRoles(ctx context.Context, roles []domain.Role) ([]domain.UserProfile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileColumns = `usuario_id, auth_uid, nombre, apellido, tipo_usuario, fecha_creacion`

func (r *profileRepository) GetByAuthUID(ctx context.Context, authUID string) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM usuario WHERE auth_uid=$1`
	return r.fetchSingle(ctx, query, authUID)
}

func (r *profileRepository) GetByID(ctx context.Context, id int64) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM usuario WHERE usuario_id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *profileRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	var rawRole string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.AuthUID,
		&profile.Name,
		&profile.Surname,
		&rawRole,
		&profile.CreatedAt,
	); err != nil {
		return nil, err
	}
	profile.Role = domain.NormalizeRole(rawRole)
	return &profile, nil
}

// ListByRoles returns profiles whose tipo_usuario is in the given set,
// ordered by name ascending.
func (r *profileRepository) ListByRoles(ctx context.Context, roles []domain.Role) ([]domain.UserProfile, error) {
	if len(roles) == 0 {
		return []domain.UserProfile{}, nil
	}
	placeholders := make([]string, len(roles))
	args := make([]any, len(roles))
	for i, role := range roles {
		args[i] = string(role)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`SELECT %s FROM usuario WHERE tipo_usuario IN (%s) ORDER BY nombre ASC`,
		profileColumns, strings.Join(placeholders, ","))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func scanProfiles(rows pgx.Rows) ([]domain.UserProfile, error) {
	result := []domain.UserProfile{}
	for rows.Next() {
		var profile domain.UserProfile
		var rawRole string
		if err := rows.Scan(
			&profile.ID,
			&profile.AuthUID,
			&profile.Name,
			&profile.Surname,
			&rawRole,
			&profile.CreatedAt,
		); err != nil {
			return nil, err
		}
		profile.Role = domain.NormalizeRole(rawRole)
		result = append(result, profile)
	}
	return result, rows.Err()
}
