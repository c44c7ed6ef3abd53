package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/jhoicas/pdv-api/pkg/metrics"
)

// Entry datos de una acción auditada. Old y New se serializan a JSON.
type Entry struct {
	UserID        string
	Action        string
	Table         string
	RecordID      string
	Old           interface{}
	New           interface{}
	Justification string
}

// Writer es el único permiso que el Recorder necesita sobre audit_logs.
type Writer interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}

// Recorder escribe entradas de auditoría dentro de la transacción de la acción auditada.
// Es la única vía de alta de audit_logs.
type Recorder struct {
	metrics *metrics.POSMetrics
	log     *logger.Logger
}

// NewRecorder construye el recorder. metrics puede ser nil.
func NewRecorder(m *metrics.POSMetrics, log *logger.Logger) *Recorder {
	return &Recorder{metrics: m, log: log}
}

// RecordInTx persiste la entrada con repo (atado a la tx del caller).
func (r *Recorder) RecordInTx(ctx context.Context, repo Writer, e Entry) (*entity.AuditLog, error) {
	if strings.TrimSpace(e.Justification) == "" {
		return nil, domain.ErrJustificationRequired
	}
	if e.UserID == "" || e.Action == "" || e.Table == "" || e.RecordID == "" {
		return nil, fmt.Errorf("%w: entrada de auditoría incompleta", domain.ErrInvalidInput)
	}
	oldValue, err := toJSON(e.Old)
	if err != nil {
		return nil, err
	}
	newValue, err := toJSON(e.New)
	if err != nil {
		return nil, err
	}
	a := &entity.AuditLog{
		ID:            uuid.New().String(),
		UserID:        e.UserID,
		Action:        e.Action,
		AffectedTable: e.Table,
		RecordID:      e.RecordID,
		OldValue:      oldValue,
		NewValue:      newValue,
		Justification: strings.TrimSpace(e.Justification),
		CreatedAt:     time.Now(),
	}
	if err := repo.Create(ctx, a); err != nil {
		return nil, err
	}
	r.metrics.AuditRecorded(a.Action)
	if r.log != nil {
		r.log.Info().
			Str("action", a.Action).
			Str("table", a.AffectedTable).
			Str("record_id", a.RecordID).
			Str("user_id", a.UserID).
			Msg("auditoría registrada")
	}
	return a, nil
}

func toJSON(v interface{}) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return &s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializar valor de auditoría: %w", err)
	}
	s := string(b)
	return &s, nil
}
