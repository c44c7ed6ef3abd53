package entity

import "time"

// Acciones auditadas por el sistema.
const (
	AuditActionSaleCancelled     = "CANCELAMENTO_VENDA"
	AuditActionCashDiscrepancy   = "FECHAMENTO_CAIXA_DIVERGENTE"
	AuditActionStockLoss         = "PERDA_ESTOQUE"
	AuditActionStockAdjustment   = "AJUSTE_ESTOQUE"
	AuditActionNegativeStock     = "ESTOQUE_NEGATIVO_FORCADO"
	AuditActionConsoleChange     = "ALTERACAO_CONSOLE"
	AuditActionConsoleBulkChange = "ALTERACAO_LISTA_CONSOLE"
	AuditActionConsoleDelete     = "EXCLUSAO_CONSOLE"
)

// AuditLog es el registro inmutable de una acción sensible. Sólo lo crea el sistema.
type AuditLog struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Action        string    `json:"action" gorm:"size:100;not null"`
	AffectedTable string    `json:"affected_table" gorm:"size:50;not null;index"`
	RecordID      string    `json:"record_id" gorm:"size:64;not null;index"`
	OldValue      *string   `json:"old_value"`
	NewValue      *string   `json:"new_value"`
	Justification string    `json:"justification" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`

	User *User `json:"user,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
}

func (a *AuditLog) String() string { return a.Action }
