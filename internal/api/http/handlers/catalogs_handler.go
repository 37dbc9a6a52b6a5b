package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusdesk/helpdesk-service/internal/api/dto"
	"github.com/campusdesk/helpdesk-service/internal/domain"
	"github.com/campusdesk/helpdesk-service/internal/service"
)

// CatalogsHandler serves the public lookup catalogs.
type CatalogsHandler struct {
	service *service.CatalogService
}

// NewCatalogsHandler constructs handler.
func NewCatalogsHandler(catalogService *service.CatalogService) *CatalogsHandler {
	return &CatalogsHandler{service: catalogService}
}

// List GET /catalogs.
func (h *CatalogsHandler) List(c *fiber.Ctx) error {
	catalogs, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.CatalogsResponse{
		Categorias:  catalogEntries(catalogs.Categories),
		Prioridades: catalogEntries(catalogs.Priorities),
		Estados:     catalogEntries(catalogs.Statuses),
		Areas:       catalogEntries(catalogs.Areas),
	})
}

func catalogEntries(entries []domain.CatalogEntry) []dto.CatalogEntryResponse {
	result := make([]dto.CatalogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, dto.CatalogEntryResponse{
			CatalogoID: entry.ID,
			Nombre:     entry.Name,
			Codigo:     entry.Code,
		})
	}
	return result
}
