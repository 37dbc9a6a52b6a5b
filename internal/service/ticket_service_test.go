package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusdesk/helpdesk-service/internal/config"
	"github.com/campusdesk/helpdesk-service/internal/domain"
	"github.com/campusdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campusdesk/helpdesk-service/pkg/util/errorutil"
)

// ---- in-memory fakes ----

type fakeProfileRepo struct {
	profiles []domain.UserProfile
}

func (f *fakeProfileRepo) GetByAuthUID(_ context.Context, authUID string) (*domain.UserProfile, error) {
	for i := range f.profiles {
		if f.profiles[i].AuthUID == authUID {
			profile := f.profiles[i]
			return &profile, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id int64) (*domain.UserProfile, error) {
	for i := range f.profiles {
		if f.profiles[i].ID == id {
			profile := f.profiles[i]
			return &profile, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProfileRepo) ListByRoles(_ context.Context, roles []domain.Role) ([]domain.UserProfile, error) {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	result := []domain.UserProfile{}
	for _, profile := range f.profiles {
		if _, ok := allowed[profile.Role]; ok {
			result = append(result, profile)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type fakeTicketRepo struct {
	tickets    map[int64]*domain.Ticket
	nextID     int64
	failCreate error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*domain.Ticket{}, nextID: 1}
}

// fakeEpoch anchors the fakes' timestamps; each write advances one minute
// so ordering assertions are deterministic.
var fakeEpoch = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	ticket.ID = f.nextID
	ticket.CreatedAt = fakeEpoch.Add(time.Duration(f.nextID) * time.Minute)
	f.nextID++
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) UpdateFields(_ context.Context, id int64, update repository.TicketUpdate) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.AssigneeID != nil {
		assignee := *update.AssigneeID
		ticket.AssigneeID = &assignee
	}
	if update.StatusID != nil {
		ticket.StatusID = *update.StatusID
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) GetView(_ context.Context, id int64) (*domain.TicketView, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.TicketView{Ticket: *ticket}, nil
}

func (f *fakeTicketRepo) ListViews(_ context.Context, filter repository.TicketFilter) ([]domain.TicketView, error) {
	result := []domain.TicketView{}
	for _, ticket := range f.tickets {
		if filter.ReporterID != nil && ticket.ReporterID != *filter.ReporterID {
			continue
		}
		result = append(result, domain.TicketView{Ticket: *ticket})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

type fakeHistoryRepo struct {
	entries    []domain.HistoryEntry
	failCreate error
	failList   error
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.HistoryEntry) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	entry.ID = int64(len(f.entries) + 1)
	entry.ChangedAt = fakeEpoch.Add(time.Duration(len(f.entries)+1) * time.Minute)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.HistoryView, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	result := []domain.HistoryView{}
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].TicketID == ticketID {
			result = append(result, domain.HistoryView{HistoryEntry: f.entries[i]})
		}
	}
	return result, nil
}

type fakeAttachmentRepo struct {
	items      []domain.Attachment
	failCreate error
	failList   error
}

func (f *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	attachment.ID = int64(len(f.items) + 1)
	attachment.UploadedAt = time.Now()
	f.items = append(f.items, *attachment)
	return nil
}

func (f *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Attachment, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	result := []domain.Attachment{}
	for _, item := range f.items {
		if item.TicketID == ticketID {
			result = append(result, item)
		}
	}
	return result, nil
}

// ---- fixture ----

var testDefaults = config.TicketDefaultsConfig{
	OpenStatusID:      1,
	DefaultPriorityID: 8,
	FallbackAreaID:    38,
}

type fixture struct {
	service     *TicketService
	profiles    *fakeProfileRepo
	tickets     *fakeTicketRepo
	history     *fakeHistoryRepo
	attachments *fakeAttachmentRepo
}

func newFixture() *fixture {
	profiles := &fakeProfileRepo{profiles: []domain.UserProfile{
		{ID: 10, AuthUID: "uid-alumno", Name: "Ana", Surname: "García", Role: domain.RoleAlumno},
		{ID: 11, AuthUID: "uid-maestro", Name: "Luis", Surname: "Pérez", Role: domain.RoleMaestro},
		{ID: 12, AuthUID: "uid-admin", Name: "Carla", Surname: "Ruiz", Role: domain.RoleAdministrativo},
		{ID: 13, AuthUID: "uid-soporte", Name: "Beto", Surname: "Santos", Role: domain.RoleSoporte},
		{ID: 14, AuthUID: "uid-administrador", Name: "Rosa", Surname: "Mora", Role: domain.RoleAdministrador},
	}}
	tickets := newFakeTicketRepo()
	history := &fakeHistoryRepo{}
	attachments := &fakeAttachmentRepo{}

	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		ProfileRepo:    profiles,
		AttachmentRepo: attachments,
		HistoryRepo:    history,
		Defaults:       testDefaults,
		Logger:         zap.NewNop(),
	})
	return &fixture{service: svc, profiles: profiles, tickets: tickets, history: history, attachments: attachments}
}

func (f *fixture) caller(t *testing.T, uid string) *domain.UserProfile {
	t.Helper()
	caller, err := f.service.ResolveCaller(context.Background(), uid)
	require.NoError(t, err)
	return caller
}

// ---- tests ----

func TestCreateAppliesDefaults(t *testing.T) {
	f := newFixture()
	caller := f.caller(t, "uid-alumno")

	ticket, err := f.service.Create(context.Background(), caller, TicketCreateInput{
		Title:      "Proyector roto",
		CategoryID: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), ticket.StatusID)
	assert.Equal(t, int64(8), ticket.PriorityID)
	assert.Equal(t, int64(38), ticket.NotifiedAreaID)
	assert.Equal(t, int64(10), ticket.ReporterID)
	assert.Nil(t, ticket.AssigneeID)
	assert.NotZero(t, ticket.ID)
}

func TestCreateKeepsExplicitPriorityAndArea(t *testing.T) {
	f := newFixture()
	caller := f.caller(t, "uid-alumno")

	priority := int64(10)
	area := int64(40)
	ticket, err := f.service.Create(context.Background(), caller, TicketCreateInput{
		Title:          "Sin internet",
		CategoryID:     6,
		PriorityID:     &priority,
		NotifiedAreaID: &area,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), ticket.PriorityID)
	assert.Equal(t, int64(40), ticket.NotifiedAreaID)
	assert.Equal(t, int64(1), ticket.StatusID)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	f := newFixture()
	caller := f.caller(t, "uid-alumno")

	tests := []struct {
		name  string
		input TicketCreateInput
	}{
		{name: "missing title", input: TicketCreateInput{CategoryID: 3}},
		{name: "blank title", input: TicketCreateInput{Title: "   ", CategoryID: 3}},
		{name: "missing category", input: TicketCreateInput{Title: "Proyector roto"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), caller, tt.input)
			require.Error(t, err)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Empty(t, f.tickets.tickets)
		})
	}
}

func TestResolveCallerUnknownPrincipal(t *testing.T) {
	f := newFixture()

	_, err := f.service.ResolveCaller(context.Background(), "uid-ghost")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROFILE_NOT_FOUND", domainErr.Code)
	assert.Empty(t, f.tickets.tickets)
}

func TestCreateAttachmentFailureKeepsTicket(t *testing.T) {
	f := newFixture()
	caller := f.caller(t, "uid-alumno")
	f.attachments.failCreate = errors.New("storage metadata write refused")

	ticket, err := f.service.Create(context.Background(), caller, TicketCreateInput{
		Title:      "Silla rota",
		CategoryID: 5,
		Attachment: &AttachmentInput{
			Filename:   "silla.jpg",
			StorageURL: "https://storage.example.com/adjuntos/silla.jpg",
			MimeType:   "image/jpeg",
			SizeBytes:  2048,
			Bucket:     "adjuntos",
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, ticket.ID)
	assert.Empty(t, f.attachments.items)
}

func TestCreateStoresAttachment(t *testing.T) {
	f := newFixture()
	caller := f.caller(t, "uid-alumno")

	ticket, err := f.service.Create(context.Background(), caller, TicketCreateInput{
		Title:      "Silla rota",
		CategoryID: 5,
		Attachment: &AttachmentInput{
			Filename:   "silla.jpg",
			StorageURL: "https://storage.example.com/adjuntos/silla.jpg",
			MimeType:   "image/jpeg",
			SizeBytes:  2048,
			Bucket:     "adjuntos",
		},
	})
	require.NoError(t, err)

	require.Len(t, f.attachments.items, 1)
	stored := f.attachments.items[0]
	assert.Equal(t, ticket.ID, stored.TicketID)
	assert.Equal(t, caller.ID, stored.UploadedBy)
	assert.Equal(t, "silla.jpg", stored.Filename)
}

func TestListRestrictedRolesSeeOwnTicketsOnly(t *testing.T) {
	f := newFixture()
	alumno := f.caller(t, "uid-alumno")
	maestro := f.caller(t, "uid-maestro")
	admin := f.caller(t, "uid-admin")

	_, err := f.service.Create(context.Background(), alumno, TicketCreateInput{Title: "A", CategoryID: 3})
	require.NoError(t, err)
	_, err = f.service.Create(context.Background(), maestro, TicketCreateInput{Title: "B", CategoryID: 3})
	require.NoError(t, err)

	own, err := f.service.List(context.Background(), alumno)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, alumno.ID, own[0].ReporterID)

	maestroOwn, err := f.service.List(context.Background(), maestro)
	require.NoError(t, err)
	require.Len(t, maestroOwn, 1)
	assert.Equal(t, maestro.ID, maestroOwn[0].ReporterID)

	all, err := f.service.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListOrdersNewestFirst(t *testing.T) {
	f := newFixture()
	admin := f.caller(t, "uid-admin")

	first, err := f.service.Create(context.Background(), admin, TicketCreateInput{Title: "Primero", CategoryID: 3})
	require.NoError(t, err)
	second, err := f.service.Create(context.Background(), admin, TicketCreateInput{Title: "Segundo", CategoryID: 3})
	require.NoError(t, err)

	views, err := f.service.List(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, first.ID, views[1].ID)
	assert.True(t, views[0].CreatedAt.After(views[1].CreatedAt))
}

func TestDetailsHistoryNewestFirst(t *testing.T) {
	f := newFixture()
	admin := f.caller(t, "uid-admin")
	ticket, err := f.service.Create(context.Background(), admin, TicketCreateInput{Title: "Proyector roto", CategoryID: 3})
	require.NoError(t, err)

	for _, status := range []int64{2, 3} {
		s := status
		_, err = f.service.Update(context.Background(), admin, TicketUpdateInput{TicketID: ticket.ID, StatusID: &s})
		require.NoError(t, err)
	}

	details, err := f.service.Details(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, details.History, 2)
	assert.Equal(t, "Estado 3", details.History[0].NewValue)
	assert.Equal(t, "Estado 2", details.History[1].NewValue)
	assert.True(t, details.History[0].ChangedAt.After(details.History[1].ChangedAt))
}

func TestDetailsUnknownTicketFails(t *testing.T) {
	f := newFixture()

	_, err := f.service.Details(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestDetailsSubFetchFailuresDegradeToEmptyLists(t *testing.T) {
	f := newFixture()
	caller := f.caller(t, "uid-alumno")
	ticket, err := f.service.Create(context.Background(), caller, TicketCreateInput{Title: "A", CategoryID: 3})
	require.NoError(t, err)

	f.history.failList = errors.New("historial unavailable")
	f.attachments.failList = errors.New("adjunto unavailable")

	details, err := f.service.Details(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.NotNil(t, details.History)
	assert.Empty(t, details.History)
	assert.NotNil(t, details.Attachments)
	assert.Empty(t, details.Attachments)
}

func TestUpdateDeniedRoles(t *testing.T) {
	f := newFixture()
	alumno := f.caller(t, "uid-alumno")
	admin := f.caller(t, "uid-admin")

	ticket, err := f.service.Create(context.Background(), admin, TicketCreateInput{Title: "A", CategoryID: 3})
	require.NoError(t, err)

	status := int64(2)
	_, err = f.service.Update(context.Background(), alumno, TicketUpdateInput{TicketID: ticket.ID, StatusID: &status})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ROLE_DENIED", domainErr.Code)

	// ticket untouched, no audit entry
	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.StatusID)
	assert.Empty(t, f.history.entries)
}

func TestUpdateRequiresAtLeastOneField(t *testing.T) {
	f := newFixture()
	admin := f.caller(t, "uid-admin")
	ticket, err := f.service.Create(context.Background(), admin, TicketCreateInput{Title: "A", CategoryID: 3})
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), admin, TicketUpdateInput{TicketID: ticket.ID})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateStatusWritesAuditEntry(t *testing.T) {
	f := newFixture()
	admin := f.caller(t, "uid-admin")
	ticket, err := f.service.Create(context.Background(), admin, TicketCreateInput{Title: "Proyector roto", CategoryID: 3})
	require.NoError(t, err)

	status := int64(2)
	updated, err := f.service.Update(context.Background(), admin, TicketUpdateInput{TicketID: ticket.ID, StatusID: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.StatusID)

	require.Len(t, f.history.entries, 1)
	entry := f.history.entries[0]
	assert.Equal(t, domain.HistoryFieldStatus, entry.FieldChanged)
	assert.Equal(t, "Estado 1", entry.OldValue)
	assert.Equal(t, "Estado 2", entry.NewValue)
	assert.Equal(t, admin.ID, entry.AuthorID)
}

func TestUpdateAssigneeWritesReassignmentMessage(t *testing.T) {
	f := newFixture()
	admin := f.caller(t, "uid-admin")
	ticket, err := f.service.Create(context.Background(), admin, TicketCreateInput{Title: "A", CategoryID: 3})
	require.NoError(t, err)

	assignee := int64(11) // Luis Pérez
	updated, err := f.service.Update(context.Background(), admin, TicketUpdateInput{TicketID: ticket.ID, AssigneeID: &assignee})
	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, int64(11), *updated.AssigneeID)

	require.Len(t, f.history.entries, 1)
	entry := f.history.entries[0]
	assert.Equal(t, domain.HistoryFieldAssignee, entry.FieldChanged)
	assert.Equal(t, "Luis Pérez", entry.NewValue)
	assert.Equal(t, "[Carla Ruiz] Reasignó la tarea a [Luis Pérez]", entry.ChangeMessage)
}

func TestUpdateAssigneeTakesPrecedenceInAudit(t *testing.T) {
	f := newFixture()
	soporte := f.caller(t, "uid-soporte")
	ticket, err := f.service.Create(context.Background(), soporte, TicketCreateInput{Title: "A", CategoryID: 3})
	require.NoError(t, err)

	assignee := int64(11)
	status := int64(2)
	updated, err := f.service.Update(context.Background(), soporte, TicketUpdateInput{
		TicketID: ticket.ID, AssigneeID: &assignee, StatusID: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.StatusID)

	require.Len(t, f.history.entries, 1)
	assert.Equal(t, domain.HistoryFieldAssignee, f.history.entries[0].FieldChanged)
}

func TestUpdateUnknownAssigneeFailsBeforeWrite(t *testing.T) {
	f := newFixture()
	admin := f.caller(t, "uid-admin")
	ticket, err := f.service.Create(context.Background(), admin, TicketCreateInput{Title: "A", CategoryID: 3})
	require.NoError(t, err)

	assignee := int64(999)
	_, err = f.service.Update(context.Background(), admin, TicketUpdateInput{TicketID: ticket.ID, AssigneeID: &assignee})
	require.Error(t, err)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AssigneeID)
}

func TestUpdateHistoryFailureDoesNotFailUpdate(t *testing.T) {
	f := newFixture()
	admin := f.caller(t, "uid-admin")
	ticket, err := f.service.Create(context.Background(), admin, TicketCreateInput{Title: "A", CategoryID: 3})
	require.NoError(t, err)

	f.history.failCreate = errors.New("historial write refused")

	status := int64(2)
	updated, err := f.service.Update(context.Background(), admin, TicketUpdateInput{TicketID: ticket.ID, StatusID: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.StatusID)
	assert.Empty(t, f.history.entries)
}

func TestOpenThenTransitionScenario(t *testing.T) {
	f := newFixture()
	alumno := f.caller(t, "uid-alumno")
	admin := f.caller(t, "uid-admin")

	ticket, err := f.service.Create(context.Background(), alumno, TicketCreateInput{
		Title:      "Proyector roto",
		CategoryID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), ticket.PriorityID)
	assert.Equal(t, int64(1), ticket.StatusID)
	assert.Equal(t, int64(38), ticket.NotifiedAreaID)

	status := int64(2)
	updated, err := f.service.Update(context.Background(), admin, TicketUpdateInput{TicketID: ticket.ID, StatusID: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.StatusID)

	require.Len(t, f.history.entries, 1)
	assert.Equal(t, "Estado 2", f.history.entries[0].NewValue)
}

func TestListStaffReturnsAssignableRoles(t *testing.T) {
	f := newFixture()

	staff, err := f.service.ListStaff(context.Background())
	require.NoError(t, err)
	require.Len(t, staff, 4)

	roles := map[domain.Role]bool{}
	names := make([]string, 0, len(staff))
	for _, member := range staff {
		roles[member.Role] = true
		names = append(names, member.Name)
	}
	assert.False(t, roles[domain.RoleAlumno])
	assert.True(t, sort.StringsAreSorted(names))
}
