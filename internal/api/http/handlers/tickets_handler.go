package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/campusdesk/helpdesk-service/internal/api/dto"
	"github.com/campusdesk/helpdesk-service/internal/auth"
	"github.com/campusdesk/helpdesk-service/internal/domain"
	"github.com/campusdesk/helpdesk-service/internal/service"
	apperrors "github.com/campusdesk/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler exposes the ticket workflow endpoints.
type TicketsHandler struct {
	service  *service.TicketService
	validate *validator.Validate
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{
		service:  ticketService,
		validate: validator.New(),
	}
}

// Create POST /tickets/create.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError(createValidationMessage(err), nil)
	}

	caller, err := h.resolveCaller(c)
	if err != nil {
		return err
	}

	input := service.TicketCreateInput{
		Title:          req.Titulo,
		CategoryID:     req.CategoriaID,
		Details:        req.Detalles,
		PriorityID:     req.PrioridadID,
		NotifiedAreaID: req.AreaNotificadaID,
	}
	if req.Adjunto != nil {
		input.Attachment = &service.AttachmentInput{
			Filename:   req.Adjunto.NombreArchivo,
			StorageURL: req.Adjunto.URLAlmacenamiento,
			MimeType:   req.Adjunto.TipoMime,
			SizeBytes:  req.Adjunto.TamanoBytes,
			Bucket:     req.Adjunto.Bucket,
		}
	}

	ticket, err := h.service.Create(c.UserContext(), caller, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticketResponse(ticket))
}

// List GET /tickets/list.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	caller, err := h.resolveCaller(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.UserContext(), caller)
	if err != nil {
		return err
	}
	items := make([]dto.TicketViewResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketViewResponse(&tickets[i]))
	}
	return c.JSON(items)
}

// Details GET /tickets/details?id=.
func (h *TicketsHandler) Details(c *fiber.Ctx) error {
	rawID := c.Query("id")
	if rawID == "" {
		return apperrors.NewValidationError("Missing ticket ID", nil)
	}
	ticketID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid ticket ID", nil)
	}

	details, err := h.service.Details(c.UserContext(), ticketID)
	if err != nil {
		return err
	}

	history := make([]dto.HistoryResponse, 0, len(details.History))
	for i := range details.History {
		history = append(history, historyResponse(&details.History[i]))
	}
	attachments := make([]dto.AttachmentResponse, 0, len(details.Attachments))
	for i := range details.Attachments {
		attachments = append(attachments, attachmentResponse(&details.Attachments[i]))
	}

	return c.JSON(dto.TicketDetailsResponse{
		Ticket:      ticketViewResponse(&details.Ticket),
		History:     history,
		Attachments: attachments,
	})
}

// Update PUT /tickets/update.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("Missing required field: ticket_id", nil)
	}

	caller, err := h.resolveCaller(c)
	if err != nil {
		return err
	}

	ticket, err := h.service.Update(c.UserContext(), caller, service.TicketUpdateInput{
		TicketID:   req.TicketID,
		AssigneeID: req.MaestroNotificadoID,
		StatusID:   req.EstadoID,
	})
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// Staff GET /tickets/staff.
func (h *TicketsHandler) Staff(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	staff, err := h.service.ListStaff(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.StaffMemberResponse, 0, len(staff))
	for i := range staff {
		items = append(items, dto.StaffMemberResponse{
			UsuarioID:   staff[i].ID,
			Nombre:      staff[i].Name,
			Apellido:    staff[i].Surname,
			TipoUsuario: string(staff[i].Role),
		})
	}
	return c.JSON(items)
}

// createValidationMessage names the part of the payload that failed: the
// nested adjunto block gets its own message so a bad attachment is not
// reported as a missing title.
func createValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			if strings.Contains(fieldErr.Namespace(), ".Adjunto.") {
				return "Missing required attachment fields: nombre_archivo, url_almacenamiento"
			}
		}
	}
	return "Missing required fields: titulo, categoria_id"
}

func (h *TicketsHandler) resolveCaller(c *fiber.Ctx) (*domain.UserProfile, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("Unauthorized")
	}
	return h.service.ResolveCaller(c.UserContext(), principal.UID)
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		TicketID:            ticket.ID,
		Titulo:              ticket.Title,
		CategoriaID:         ticket.CategoryID,
		Detalles:            ticket.Details,
		PrioridadID:         ticket.PriorityID,
		ReportadorID:        ticket.ReporterID,
		EstadoID:            ticket.StatusID,
		AreaNotificadaID:    ticket.NotifiedAreaID,
		MaestroNotificadoID: ticket.AssigneeID,
		FechaCreacion:       ticket.CreatedAt,
	}
}

func ticketViewResponse(view *domain.TicketView) dto.TicketViewResponse {
	resp := dto.TicketViewResponse{
		TicketResponse: ticketResponse(&view.Ticket),
		Catalogo:       dto.NamedRefResponse{Nombre: view.Category.Name},
		Prioridad:      dto.PriorityRefResponse{Nombre: view.Priority.Name, Codigo: view.Priority.Code},
		Estado:         dto.NamedRefResponse{Nombre: view.Status.Name},
		Area:           dto.NamedRefResponse{Nombre: view.Area.Name},
		Reportador: dto.PersonRefResponse{
			Nombre:      view.Reporter.Name,
			Apellido:    view.Reporter.Surname,
			TipoUsuario: string(view.Reporter.Role),
		},
	}
	if view.Assignee != nil {
		resp.Asignado = &dto.PersonRefResponse{
			Nombre:   view.Assignee.Name,
			Apellido: view.Assignee.Surname,
		}
	}
	return resp
}

func historyResponse(view *domain.HistoryView) dto.HistoryResponse {
	return dto.HistoryResponse{
		HistorialID:     view.ID,
		TicketID:        view.TicketID,
		AutorID:         view.AuthorID,
		CampoModificado: view.FieldChanged,
		ValorAnterior:   view.OldValue,
		ValorNuevo:      view.NewValue,
		MensajeCambio:   view.ChangeMessage,
		FechaCambio:     view.ChangedAt,
		Autor: dto.PersonRefResponse{
			Nombre:   view.Author.Name,
			Apellido: view.Author.Surname,
		},
	}
}

func attachmentResponse(attachment *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		AdjuntoID:         attachment.ID,
		TicketID:          attachment.TicketID,
		SubidoPor:         attachment.UploadedBy,
		NombreArchivo:     attachment.Filename,
		URLAlmacenamiento: attachment.StorageURL,
		TipoMime:          attachment.MimeType,
		TamanoBytes:       attachment.SizeBytes,
		Bucket:            attachment.Bucket,
		FechaSubida:       attachment.UploadedAt,
	}
}
