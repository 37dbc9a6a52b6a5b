package dto

import "time"

// CreateTicketRequest payload. Field names follow the wire vocabulary the
// deployed clients already speak.
type CreateTicketRequest struct {
	Titulo           string             `json:"titulo" validate:"required"`
	CategoriaID      int64              `json:"categoria_id" validate:"required"`
	Detalles         *string            `json:"detalles"`
	PrioridadID      *int64             `json:"prioridad_id"`
	AreaNotificadaID *int64             `json:"area_notificada_id"`
	Adjunto          *AttachmentRequest `json:"adjunto"`
}

// AttachmentRequest describes a file already placed in object storage.
type AttachmentRequest struct {
	NombreArchivo    string `json:"nombre_archivo" validate:"required"`
	URLAlmacenamiento string `json:"url_almacenamiento" validate:"required"`
	TipoMime         string `json:"tipo_mime"`
	TamanoBytes      int64  `json:"tamano_bytes" validate:"gte=0"`
	Bucket           string `json:"bucket"`
}

// UpdateTicketRequest payload for assign/transition updates.
type UpdateTicketRequest struct {
	TicketID            int64  `json:"ticket_id" validate:"required"`
	MaestroNotificadoID *int64 `json:"maestro_notificado_id"`
	EstadoID            *int64 `json:"estado_id"`
}

// TicketResponse is the bare ticket row.
type TicketResponse struct {
	TicketID            int64     `json:"ticket_id"`
	Titulo              string    `json:"titulo"`
	CategoriaID         int64     `json:"categoria_id"`
	Detalles            *string   `json:"detalles"`
	PrioridadID         int64     `json:"prioridad_id"`
	ReportadorID        int64     `json:"reportador_id"`
	EstadoID            int64     `json:"estado_id"`
	AreaNotificadaID    int64     `json:"area_notificada_id"`
	MaestroNotificadoID *int64    `json:"maestro_notificado_id"`
	FechaCreacion       time.Time `json:"fecha_creacion"`
}

// NamedRefResponse is a joined catalog label.
type NamedRefResponse struct {
	Nombre string `json:"nombre"`
}

// PriorityRefResponse is a joined priority label with its code.
type PriorityRefResponse struct {
	Nombre string `json:"nombre"`
	Codigo string `json:"codigo"`
}

// PersonRefResponse is a joined usuario display record.
type PersonRefResponse struct {
	Nombre      string `json:"nombre"`
	Apellido    string `json:"apellido"`
	TipoUsuario string `json:"tipo_usuario,omitempty"`
}

// TicketViewResponse is a ticket row with the joined display names.
type TicketViewResponse struct {
	TicketResponse
	Catalogo   NamedRefResponse     `json:"catalogo"`
	Prioridad  PriorityRefResponse  `json:"prioridad"`
	Estado     NamedRefResponse     `json:"estado"`
	Area       NamedRefResponse     `json:"area"`
	Reportador PersonRefResponse    `json:"reportador"`
	Asignado   *PersonRefResponse   `json:"asignado"`
}

// HistoryResponse is one audit trail entry.
type HistoryResponse struct {
	HistorialID     int64             `json:"historial_id"`
	TicketID        int64             `json:"ticket_id"`
	AutorID         int64             `json:"autor_id"`
	CampoModificado string            `json:"campo_modificado"`
	ValorAnterior   string            `json:"valor_anterior"`
	ValorNuevo      string            `json:"valor_nuevo"`
	MensajeCambio   string            `json:"mensaje_cambio"`
	FechaCambio     time.Time         `json:"fecha_cambio"`
	Autor           PersonRefResponse `json:"autor"`
}

// AttachmentResponse is stored attachment metadata.
type AttachmentResponse struct {
	AdjuntoID         int64     `json:"adjunto_id"`
	TicketID          int64     `json:"ticket_id"`
	SubidoPor         int64     `json:"subido_por"`
	NombreArchivo     string    `json:"nombre_archivo"`
	URLAlmacenamiento string    `json:"url_almacenamiento"`
	TipoMime          string    `json:"tipo_mime"`
	TamanoBytes       int64     `json:"tamano_bytes"`
	Bucket            string    `json:"bucket"`
	FechaSubida       time.Time `json:"fecha_subida"`
}

// TicketDetailsResponse aggregates a ticket with history and attachments.
type TicketDetailsResponse struct {
	Ticket      TicketViewResponse   `json:"ticket"`
	History     []HistoryResponse    `json:"history"`
	Attachments []AttachmentResponse `json:"attachments"`
}

// StaffMemberResponse is one assignable staff profile.
type StaffMemberResponse struct {
	UsuarioID   int64  `json:"usuario_id"`
	Nombre      string `json:"nombre"`
	Apellido    string `json:"apellido"`
	TipoUsuario string `json:"tipo_usuario"`
}
