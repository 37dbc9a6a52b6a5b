package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusdesk/helpdesk-service/internal/domain"
)

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error)
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	const query = `
        INSERT INTO adjunto (ticket_id, subido_por, nombre_archivo, url_almacenamiento, tipo_mime, tamano_bytes, bucket)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING adjunto_id, fecha_subida`
	return r.pool.QueryRow(ctx, query,
		attachment.TicketID,
		attachment.UploadedBy,
		attachment.Filename,
		attachment.StorageURL,
		attachment.MimeType,
		attachment.SizeBytes,
		attachment.Bucket,
	).Scan(&attachment.ID, &attachment.UploadedAt)
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error) {
	const query = `
        SELECT adjunto_id, ticket_id, subido_por, nombre_archivo, url_almacenamiento, tipo_mime, tamano_bytes, bucket, fecha_subida
        FROM adjunto WHERE ticket_id=$1 ORDER BY fecha_subida ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Attachment{}
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.UploadedBy,
			&attachment.Filename,
			&attachment.StorageURL,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.Bucket,
			&attachment.UploadedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}
