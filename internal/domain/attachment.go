package domain

import "time"

// Attachment is metadata for a file already uploaded to object storage.
// The service never touches the bytes; it records the URL the storage
// backend returned. Rows are written best-effort alongside ticket
// creation, so a successfully created ticket may have none.
type Attachment struct {
	ID         int64
	TicketID   int64
	UploadedBy int64
	Filename   string
	StorageURL string
	MimeType   string
	SizeBytes  int64
	Bucket     string
	UploadedAt time.Time
}
