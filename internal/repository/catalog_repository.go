package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusdesk/helpdesk-service/internal/domain"
)

// CatalogRepository reads the immutable catalogo reference data.
type CatalogRepository interface {
	ListByType(ctx context.Context, catalogType domain.CatalogType) ([]domain.CatalogEntry, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository instantiates the repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) ListByType(ctx context.Context, catalogType domain.CatalogType) ([]domain.CatalogEntry, error) {
	const query = `
        SELECT catalogo_id, nombre, codigo, tipo
        FROM catalogo WHERE tipo=$1 ORDER BY catalogo_id ASC`
	rows, err := r.pool.Query(ctx, query, catalogType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.CatalogEntry{}
	for rows.Next() {
		var entry domain.CatalogEntry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Code, &entry.Type); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
