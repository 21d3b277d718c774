package entity

import "github.com/google/uuid"

// SessionFilter is a domain-level filter for querying sessions.
// Used by the repository layer to avoid coupling with delivery DTOs.
type SessionFilter struct {
	DoctorID   *uuid.UUID
	HospitalID *uuid.UUID
	Date       string // Format: YYYY-MM-DD; empty means future-dated only
}

// AuditLogFilter narrows audit log listings.
type AuditLogFilter struct {
	Action string
	Entity string
	UserID *uuid.UUID
	Limit  int
}
