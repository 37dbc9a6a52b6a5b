package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusdesk/helpdesk-service/internal/domain"
)

type fakeCatalogRepo struct {
	entries   map[domain.CatalogType][]domain.CatalogEntry
	failTypes map[domain.CatalogType]error
}

func (f *fakeCatalogRepo) ListByType(_ context.Context, catalogType domain.CatalogType) ([]domain.CatalogEntry, error) {
	if err := f.failTypes[catalogType]; err != nil {
		return nil, err
	}
	result := f.entries[catalogType]
	if result == nil {
		result = []domain.CatalogEntry{}
	}
	return result, nil
}

func TestCatalogListReturnsAllFourLists(t *testing.T) {
	repo := &fakeCatalogRepo{entries: map[domain.CatalogType][]domain.CatalogEntry{
		domain.CatalogCategoria: {{ID: 5, Name: "Mobiliario", Code: "MOBILIARIO", Type: domain.CatalogCategoria}},
		domain.CatalogPrioridad: {{ID: 8, Name: "Bajo", Code: "BAJO", Type: domain.CatalogPrioridad}},
		domain.CatalogEstado:    {{ID: 1, Name: "Abierto", Code: "ABIERTO", Type: domain.CatalogEstado}},
		domain.CatalogArea:      {{ID: 38, Name: "Soporte General", Code: "SOPORTE", Type: domain.CatalogArea}},
	}}
	svc := NewCatalogService(repo, nil, 0, zap.NewNop())

	catalogs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalogs.Categories, 1)
	assert.Len(t, catalogs.Priorities, 1)
	assert.Len(t, catalogs.Statuses, 1)
	assert.Len(t, catalogs.Areas, 1)
}

func TestCatalogListEmptyCatalogIsEmptyListNotError(t *testing.T) {
	repo := &fakeCatalogRepo{entries: map[domain.CatalogType][]domain.CatalogEntry{}}
	svc := NewCatalogService(repo, nil, 0, zap.NewNop())

	catalogs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, catalogs.Categories)
	assert.Empty(t, catalogs.Categories)
	assert.NotNil(t, catalogs.Areas)
	assert.Empty(t, catalogs.Areas)
}

func TestCatalogListFailsWhenAnyReadFails(t *testing.T) {
	readErr := errors.New("catalogo unavailable")
	repo := &fakeCatalogRepo{
		entries:   map[domain.CatalogType][]domain.CatalogEntry{},
		failTypes: map[domain.CatalogType]error{domain.CatalogEstado: readErr},
	}
	svc := NewCatalogService(repo, nil, 0, zap.NewNop())

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
}
