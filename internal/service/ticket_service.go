package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campusdesk/helpdesk-service/internal/config"
	"github.com/campusdesk/helpdesk-service/internal/domain"
	"github.com/campusdesk/helpdesk-service/internal/events"
	"github.com/campusdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campusdesk/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates the ticket lifecycle: creation on behalf of a
// reporter, role-scoped listing, detail reads, and the audited
// assign/transition update. Attachment and history rows are secondary
// effects written best-effort: the primary ticket write never rolls back
// because of them, so a ticket may exist without its attachment or a
// mutation without its audit row.
type TicketService struct {
	tickets     repository.TicketRepository
	profiles    repository.ProfileRepository
	attachments repository.AttachmentRepository
	history     repository.HistoryRepository
	defaults    config.TicketDefaultsConfig
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	ProfileRepo    repository.ProfileRepository
	AttachmentRepo repository.AttachmentRepository
	HistoryRepo    repository.HistoryRepository
	Defaults       config.TicketDefaultsConfig
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// AttachmentInput describes a file already uploaded to object storage.
type AttachmentInput struct {
	Filename   string
	StorageURL string
	MimeType   string
	SizeBytes  int64
	Bucket     string
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title          string
	CategoryID     int64
	Details        *string
	PriorityID     *int64
	NotifiedAreaID *int64
	Attachment     *AttachmentInput
}

// TicketUpdateInput describes a partial assign/transition update.
type TicketUpdateInput struct {
	TicketID   int64
	AssigneeID *int64
	StatusID   *int64
}

// TicketDetails aggregates a ticket with its audit trail and attachments.
type TicketDetails struct {
	Ticket      domain.TicketView
	History     []domain.HistoryView
	Attachments []domain.Attachment
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		profiles:    deps.ProfileRepo,
		attachments: deps.AttachmentRepo,
		history:     deps.HistoryRepo,
		defaults:    deps.Defaults,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// Create inserts a ticket reported by the caller. Status is always the
// configured open state; priority and area fall back to the configured
// defaults when the payload omits them.
func (s *TicketService) Create(ctx context.Context, caller *domain.UserProfile, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" || input.CategoryID == 0 {
		return nil, apperrors.NewValidationError("Missing required fields: titulo, categoria_id", nil)
	}

	ticket := &domain.Ticket{
		Title:          strings.TrimSpace(input.Title),
		CategoryID:     input.CategoryID,
		Details:        input.Details,
		PriorityID:     s.defaults.DefaultPriorityID,
		ReporterID:     caller.ID,
		StatusID:       s.defaults.OpenStatusID,
		NotifiedAreaID: s.defaults.FallbackAreaID,
	}
	if input.PriorityID != nil {
		ticket.PriorityID = *input.PriorityID
	}
	if input.NotifiedAreaID != nil {
		ticket.NotifiedAreaID = *input.NotifiedAreaID
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if input.Attachment != nil {
		record := &domain.Attachment{
			TicketID:   ticket.ID,
			UploadedBy: caller.ID,
			Filename:   input.Attachment.Filename,
			StorageURL: input.Attachment.StorageURL,
			MimeType:   input.Attachment.MimeType,
			SizeBytes:  input.Attachment.SizeBytes,
			Bucket:     input.Attachment.Bucket,
		}
		if err := s.attachments.Create(ctx, record); err != nil {
			s.logger.Warn("attachment insert failed; ticket kept",
				zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketCreatedPayload{
			Title:          ticket.Title,
			CategoryID:     ticket.CategoryID,
			PriorityID:     ticket.PriorityID,
			NotifiedAreaID: ticket.NotifiedAreaID,
		},
	})
	return ticket, nil
}

// List returns tickets visible to the caller, newest first. Restricted
// roles only see tickets they reported; everyone else sees all tickets.
func (s *TicketService) List(ctx context.Context, caller *domain.UserProfile) ([]domain.TicketView, error) {
	filter := repository.TicketFilter{}
	if caller.Role.IsRestrictedReporter() {
		reporterID := caller.ID
		filter.ReporterID = &reporterID
	}
	return s.tickets.ListViews(ctx, filter)
}

// Details fetches a ticket with its history and attachments. A missing
// ticket fails the call; failures of the history or attachment sub-fetches
// degrade to empty lists so the primary resource stays available.
func (s *TicketService) Details(ctx context.Context, ticketID int64) (*TicketDetails, error) {
	view, err := s.tickets.GetView(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	details := &TicketDetails{Ticket: *view, History: []domain.HistoryView{}, Attachments: []domain.Attachment{}}

	history, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		s.logger.Warn("history fetch failed; returning empty list",
			zap.Int64("ticket_id", ticketID), zap.Error(err))
	} else {
		details.History = history
	}

	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		s.logger.Warn("attachment fetch failed; returning empty list",
			zap.Int64("ticket_id", ticketID), zap.Error(err))
	} else {
		details.Attachments = attachments
	}

	return details, nil
}

// Update applies a partial assignee/status update on behalf of an allowed
// role, then appends a single best-effort audit entry describing the
// change. Reassignment resolves the target profile up front so the audit
// message can name the target; an unknown assignee fails before any write.
func (s *TicketService) Update(ctx context.Context, caller *domain.UserProfile, input TicketUpdateInput) (*domain.Ticket, error) {
	if input.TicketID == 0 {
		return nil, apperrors.NewValidationError("Missing required field: ticket_id", nil)
	}
	if !caller.Role.CanUpdateTickets() {
		return nil, apperrors.NewRoleDenied("role not allowed to update tickets")
	}

	update := repository.TicketUpdate{AssigneeID: input.AssigneeID, StatusID: input.StatusID}
	if update.IsEmpty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}

	var target *domain.UserProfile
	if input.AssigneeID != nil {
		var err error
		target, err = s.profiles.GetByID(ctx, *input.AssigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("assignee", nil)
			}
			return nil, err
		}
	}

	previous, err := s.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.UpdateFields(ctx, input.TicketID, update)
	if err != nil {
		return nil, err
	}

	s.recordUpdateHistory(ctx, caller, target, previous, input)

	if input.AssigneeID != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload: events.TicketAssignedPayload{
				AssigneeID:   *input.AssigneeID,
				AssigneeName: target.FullName(),
			},
		})
	}
	if input.StatusID != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatusID: previous.StatusID,
				NewStatusID: *input.StatusID,
			},
		})
	}
	return ticket, nil
}

// ListStaff returns all profiles eligible for ticket assignment, ordered
// by name.
func (s *TicketService) ListStaff(ctx context.Context) ([]domain.UserProfile, error) {
	return s.profiles.ListByRoles(ctx, domain.AssignableStaffRoles)
}

// ResolveCaller maps an auth uid onto its profile row. A missing row is a
// provisioning problem, not an authorization one; deployed clients match on
// this exact message, so it must not change.
func (s *TicketService) ResolveCaller(ctx context.Context, authUID string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByAuthUID(ctx, authUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewDomainError("PROFILE_NOT_FOUND",
				"User profile not found in database. Please contact support.",
				http.StatusBadRequest, nil)
		}
		return nil, err
	}
	return profile, nil
}

// recordUpdateHistory writes exactly one audit entry for an update:
// reassignment wins over a status change when both fields were present.
// Insert failures are logged and swallowed.
func (s *TicketService) recordUpdateHistory(ctx context.Context, caller, target *domain.UserProfile, previous *domain.Ticket, input TicketUpdateInput) {
	var entry domain.HistoryEntry
	switch {
	case input.AssigneeID != nil:
		entry = domain.HistoryEntry{
			TicketID:      input.TicketID,
			AuthorID:      caller.ID,
			FieldChanged:  domain.HistoryFieldAssignee,
			OldValue:      formatAssignee(previous.AssigneeID),
			NewValue:      target.FullName(),
			ChangeMessage: "[" + caller.FullName() + "] Reasignó la tarea a [" + target.FullName() + "]",
		}
	case input.StatusID != nil:
		entry = domain.HistoryEntry{
			TicketID:      input.TicketID,
			AuthorID:      caller.ID,
			FieldChanged:  domain.HistoryFieldStatus,
			OldValue:      "Estado " + strconv.FormatInt(previous.StatusID, 10),
			NewValue:      "Estado " + strconv.FormatInt(*input.StatusID, 10),
			ChangeMessage: "Actualización de estado",
		}
	default:
		return
	}

	if err := s.history.Create(ctx, &entry); err != nil {
		s.logger.Warn("history insert failed; update kept",
			zap.Int64("ticket_id", input.TicketID), zap.Error(err))
	}
}

func formatAssignee(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
