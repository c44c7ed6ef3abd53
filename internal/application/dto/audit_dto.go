package dto

import "time"

// AuditFilterRequest filtros del listado de auditoría.
type AuditFilterRequest struct {
	PageRequest
	UserID        string `query:"user_id"`
	AffectedTable string `query:"affected_table"`
	RecordID      string `query:"record_id"`
}

// AuditLogResponse salida de una entrada de auditoría.
type AuditLogResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Action        string    `json:"action"`
	AffectedTable string    `json:"affected_table"`
	RecordID      string    `json:"record_id"`
	OldValue      *string   `json:"old_value"`
	NewValue      *string   `json:"new_value"`
	Justification string    `json:"justification"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditLogListResponse lista paginada de auditoría.
type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
