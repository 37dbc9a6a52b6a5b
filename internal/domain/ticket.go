package domain

import "time"

// Ticket is the aggregate for support requests. Status and priority are
// catalog references rather than compile-time enums; the catalogo table
// defines the value space and only two ids carry special meaning to this
// service (the open status assigned at creation and the default priority),
// both resolved from configuration at startup.
type Ticket struct {
	ID             int64
	Title          string
	CategoryID     int64
	Details        *string
	PriorityID     int64
	ReporterID     int64
	StatusID       int64
	NotifiedAreaID int64
	AssigneeID     *int64
	CreatedAt      time.Time
}

// NamedRef carries the display name joined from a catalog row.
type NamedRef struct {
	Name string
}

// PriorityRef additionally carries the catalog code.
type PriorityRef struct {
	Name string
	Code string
}

// PersonRef carries the display fields joined from a usuario row.
type PersonRef struct {
	Name    string
	Surname string
	Role    Role
}

// TicketView is a ticket joined with the display names clients render:
// catalog labels for category/priority/status/area and the reporter and
// assignee profiles. Assignee is nil while the ticket is unassigned.
type TicketView struct {
	Ticket
	Category NamedRef
	Priority PriorityRef
	Status   NamedRef
	Area     NamedRef
	Reporter PersonRef
	Assignee *PersonRef
}
