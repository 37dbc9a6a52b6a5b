package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusdesk/helpdesk-service/internal/domain"
)

// TicketFilter captures listing parameters. ReporterID restricts the
// listing to tickets reported by that profile.
type TicketFilter struct {
	ReporterID *int64
}

// TicketUpdate is a partial update; only non-nil fields are written.
type TicketUpdate struct {
	AssigneeID *int64
	StatusID   *int64
}

// IsEmpty reports whether the update carries no fields.
func (u TicketUpdate) IsEmpty() bool {
	return u.AssigneeID == nil && u.StatusID == nil
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	UpdateFields(ctx context.Context, id int64, update TicketUpdate) (*domain.Ticket, error)
	GetView(ctx context.Context, id int64) (*domain.TicketView, error)
	ListViews(ctx context.Context, filter TicketFilter) ([]domain.TicketView, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `ticket_id, titulo, categoria_id, detalles, prioridad_id,
               reportador_id, estado_id, area_notificada_id, maestro_notificado_id, fecha_creacion`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO ticket (titulo, categoria_id, detalles, prioridad_id, reportador_id, estado_id, area_notificada_id, maestro_notificado_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING ticket_id, fecha_creacion`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.CategoryID,
		ticket.Details,
		ticket.PriorityID,
		ticket.ReporterID,
		ticket.StatusID,
		ticket.NotifiedAreaID,
		ticket.AssigneeID,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM ticket WHERE ticket_id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.CategoryID,
		&ticket.Details,
		&ticket.PriorityID,
		&ticket.ReporterID,
		&ticket.StatusID,
		&ticket.NotifiedAreaID,
		&ticket.AssigneeID,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateFields applies a partial update and returns the updated row.
func (r *ticketRepository) UpdateFields(ctx context.Context, id int64, update TicketUpdate) (*domain.Ticket, error) {
	sets := []string{}
	args := []any{}

	if update.AssigneeID != nil {
		args = append(args, *update.AssigneeID)
		sets = append(sets, fmt.Sprintf("maestro_notificado_id=$%d", len(args)))
	}
	if update.StatusID != nil {
		args = append(args, *update.StatusID)
		sets = append(sets, fmt.Sprintf("estado_id=$%d", len(args)))
	}
	if len(sets) == 0 {
		return nil, pgx.ErrNoRows
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE ticket SET %s WHERE ticket_id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), ticketColumns)

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.CategoryID,
		&ticket.Details,
		&ticket.PriorityID,
		&ticket.ReporterID,
		&ticket.StatusID,
		&ticket.NotifiedAreaID,
		&ticket.AssigneeID,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

const ticketViewQuery = `
        SELECT t.ticket_id, t.titulo, t.categoria_id, t.detalles, t.prioridad_id,
               t.reportador_id, t.estado_id, t.area_notificada_id, t.maestro_notificado_id, t.fecha_creacion,
               cat.nombre, pri.nombre, pri.codigo, est.nombre, area.nombre,
               rep.nombre, rep.apellido, rep.tipo_usuario,
               asg.nombre, asg.apellido
        FROM ticket t
        JOIN catalogo cat ON cat.catalogo_id = t.categoria_id
        JOIN catalogo pri ON pri.catalogo_id = t.prioridad_id
        JOIN catalogo est ON est.catalogo_id = t.estado_id
        JOIN catalogo area ON area.catalogo_id = t.area_notificada_id
        JOIN usuario rep ON rep.usuario_id = t.reportador_id
        LEFT JOIN usuario asg ON asg.usuario_id = t.maestro_notificado_id`

func (r *ticketRepository) GetView(ctx context.Context, id int64) (*domain.TicketView, error) {
	query := ticketViewQuery + ` WHERE t.ticket_id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	view, err := scanTicketView(row)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (r *ticketRepository) ListViews(ctx context.Context, filter TicketFilter) ([]domain.TicketView, error) {
	query := ticketViewQuery
	args := []any{}
	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		query += ` WHERE t.reportador_id=$1`
	}
	query += ` ORDER BY t.fecha_creacion DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketView{}
	for rows.Next() {
		view, err := scanTicketView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *view)
	}
	return result, rows.Err()
}

func scanTicketView(row pgx.Row) (*domain.TicketView, error) {
	var view domain.TicketView
	var reporterRole string
	var assigneeName, assigneeSurname *string
	if err := row.Scan(
		&view.ID,
		&view.Title,
		&view.CategoryID,
		&view.Details,
		&view.PriorityID,
		&view.ReporterID,
		&view.StatusID,
		&view.NotifiedAreaID,
		&view.AssigneeID,
		&view.CreatedAt,
		&view.Category.Name,
		&view.Priority.Name,
		&view.Priority.Code,
		&view.Status.Name,
		&view.Area.Name,
		&view.Reporter.Name,
		&view.Reporter.Surname,
		&reporterRole,
		&assigneeName,
		&assigneeSurname,
	); err != nil {
		return nil, err
	}
	view.Reporter.Role = domain.NormalizeRole(reporterRole)
	if assigneeName != nil {
		assignee := domain.PersonRef{Name: *assigneeName}
		if assigneeSurname != nil {
			assignee.Surname = *assigneeSurname
		}
		view.Assignee = &assignee
	}
	return &view, nil
}
