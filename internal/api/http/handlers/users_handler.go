package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusdesk/helpdesk-service/internal/api/dto"
	"github.com/campusdesk/helpdesk-service/internal/auth"
	"github.com/campusdesk/helpdesk-service/internal/service"
	apperrors "github.com/campusdesk/helpdesk-service/pkg/util/errorutil"
)

// UsersHandler exposes the profile endpoints.
type UsersHandler struct {
	service *service.ProfileService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(profileService *service.ProfileService) *UsersHandler {
	return &UsersHandler{service: profileService}
}

// Profile GET /users/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	profile, err := h.service.Get(c.UserContext(), principal.UID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProfileResponse{
		UsuarioID:     profile.ID,
		AuthUID:       profile.AuthUID,
		Nombre:        profile.Name,
		Apellido:      profile.Surname,
		TipoUsuario:   string(profile.Role),
		FechaCreacion: profile.CreatedAt,
	})
}

// Sync POST /users/sync. Accepted and intentionally inert; profile rows
// are provisioned out-of-band when an identity registers.
func (h *UsersHandler) Sync(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	return c.JSON(dto.SyncResponse{Msg: service.SyncMessage})
}
