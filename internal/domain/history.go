package domain

import "time"

// Ticket fields tracked in the historial audit trail.
const (
	HistoryFieldAssignee = "maestro_notificado_id"
	HistoryFieldStatus   = "estado_id"
)

// HistoryEntry is one append-only audit record. Exactly one entry is
// written per ticket mutation, best-effort: a failed insert is logged and
// the mutation still succeeds.
type HistoryEntry struct {
	ID            int64
	TicketID      int64
	AuthorID      int64
	FieldChanged  string
	OldValue      string
	NewValue      string
	ChangeMessage string
	ChangedAt     time.Time
}

// HistoryView is a history entry joined with its author's display name.
type HistoryView struct {
	HistoryEntry
	Author PersonRef
}
