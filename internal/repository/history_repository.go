package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusdesk/helpdesk-service/internal/domain"
)

// HistoryRepository stores the append-only audit trail.
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.HistoryEntry) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.HistoryView, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository builds repository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Create(ctx context.Context, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO historial (ticket_id, autor_id, campo_modificado, valor_anterior, valor_nuevo, mensaje_cambio)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING historial_id, fecha_cambio`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.AuthorID,
		entry.FieldChanged,
		entry.OldValue,
		entry.NewValue,
		entry.ChangeMessage,
	).Scan(&entry.ID, &entry.ChangedAt)
}

// ListByTicket returns history entries newest-first with author names.
func (r *historyRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.HistoryView, error) {
	const query = `
        SELECT h.historial_id, h.ticket_id, h.autor_id, h.campo_modificado,
               h.valor_anterior, h.valor_nuevo, h.mensaje_cambio, h.fecha_cambio,
               u.nombre, u.apellido
        FROM historial h
        JOIN usuario u ON u.usuario_id = h.autor_id
        WHERE h.ticket_id=$1 ORDER BY h.fecha_cambio DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.HistoryView{}
	for rows.Next() {
		var view domain.HistoryView
		if err := rows.Scan(
			&view.ID,
			&view.TicketID,
			&view.AuthorID,
			&view.FieldChanged,
			&view.OldValue,
			&view.NewValue,
			&view.ChangeMessage,
			&view.ChangedAt,
			&view.Author.Name,
			&view.Author.Surname,
		); err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, rows.Err()
}
