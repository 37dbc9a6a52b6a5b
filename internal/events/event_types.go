package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title          string `json:"titulo"`
	CategoryID     int64  `json:"categoria_id"`
	PriorityID     int64  `json:"prioridad_id"`
	NotifiedAreaID int64  `json:"area_notificada_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatusID int64 `json:"estado_anterior_id"`
	NewStatusID int64 `json:"estado_nuevo_id"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID   int64  `json:"maestro_notificado_id"`
	AssigneeName string `json:"maestro_notificado_nombre"`
}
