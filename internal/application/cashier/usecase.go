package cashier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pdv-api/internal/application/audit"
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/pos"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/jhoicas/pdv-api/pkg/metrics"
	"github.com/jhoicas/pdv-api/pkg/validate"
)

// CashSessionUseCase abre, cierra (con arqueo) y consulta sesiones de caja.
type CashSessionUseCase struct {
	txRunner repository.TxRunner
	sessions repository.CashSessionRepository
	recorder *audit.Recorder
	metrics  *metrics.POSMetrics
	log      *logger.Logger
}

// NewCashSessionUseCase construye el caso de uso.
func NewCashSessionUseCase(
	txRunner repository.TxRunner,
	sessions repository.CashSessionRepository,
	recorder *audit.Recorder,
	m *metrics.POSMetrics,
	log *logger.Logger,
) *CashSessionUseCase {
	return &CashSessionUseCase{txRunner: txRunner, sessions: sessions, recorder: recorder, metrics: m, log: log}
}

// Open abre una sesión para el actor. Falla si ya tiene una sesión ABERTO.
func (uc *CashSessionUseCase) Open(ctx context.Context, actor entity.Actor, in dto.OpenCashSessionRequest) (*dto.CashSessionResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	existing, err := uc.sessions.GetOpenByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSessionAlreadyOpen
	}
	s := &entity.CashSession{
		ID:            uuid.New().String(),
		UserID:        actor.UserID,
		OpenedAt:      time.Now(),
		OpeningAmount: pos.Money(in.OpeningAmount),
		Status:        entity.CashSessionOpen,
	}
	if err := uc.sessions.Create(ctx, s); err != nil {
		// índice único parcial: otra apertura concurrente ganó
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrSessionAlreadyOpen
		}
		return nil, err
	}
	uc.log.Info().Str("session_id", s.ID).Str("user_id", s.UserID).Msg("caja abierta")
	out := dto.ToCashSessionResponse(s)
	return &out, nil
}

// Close cierra la sesión: calcula el monto del sistema, compara con lo contado y,
// si difieren, exige justificación y audita FECHAMENTO_CAIXA_DIVERGENTE.
// Sólo el dueño o ADMIN/GERENTE pueden cerrar.
func (uc *CashSessionUseCase) Close(ctx context.Context, actor entity.Actor, id string, in dto.CloseCashSessionRequest) (*dto.CashSessionResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var (
		closed *entity.CashSession
		result pos.CloseResult
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		s, err := repos.Sessions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.UserID != actor.UserID && !actor.IsManager() {
			return fmt.Errorf("%w: la sesión pertenece a otro operador", domain.ErrForbidden)
		}
		if !s.IsOpen() {
			return domain.ErrSessionClosed
		}
		cash, err := repos.Sessions.SumCashPayments(ctx, s.ID)
		if err != nil {
			return err
		}
		result, err = pos.Reconcile(s.OpeningAmount, cash, in.CountedAmount, in.Justification)
		if err != nil {
			return err
		}
		now := time.Now()
		s.ClosedAt = &now
		s.CountedAmount = &result.Counted
		s.SystemAmount = &result.System
		s.Status = entity.CashSessionClosed
		if err := repos.Sessions.Close(ctx, s); err != nil {
			return err
		}
		if result.Discrepancy {
			if _, err := uc.recorder.RecordInTx(ctx, repos.Audit, audit.Entry{
				UserID:        actor.UserID,
				Action:        entity.AuditActionCashDiscrepancy,
				Table:         "cash_sessions",
				RecordID:      s.ID,
				Old:           map[string]string{"system_amount": result.System.StringFixed(2)},
				New:           map[string]string{"counted_amount": result.Counted.StringFixed(2), "difference": result.Difference.StringFixed(2)},
				Justification: in.Justification,
			}); err != nil {
				return err
			}
		}
		closed = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SessionClosed(result.Discrepancy)
	ev := uc.log.Info()
	if result.Discrepancy {
		ev = uc.log.Warn()
	}
	ev.Str("session_id", closed.ID).
		Str("system_amount", result.System.StringFixed(2)).
		Str("counted_amount", result.Counted.StringFixed(2)).
		Msg("caja cerrada")

	out := dto.ToCashSessionResponse(closed)
	return &out, nil
}

// GetByID obtiene una sesión. Un operador sólo ve las propias.
func (uc *CashSessionUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.CashSessionResponse, error) {
	s, err := uc.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.UserID != actor.UserID && !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	out := dto.ToCashSessionResponse(s)
	return &out, nil
}

// Current devuelve la sesión abierta del actor.
func (uc *CashSessionUseCase) Current(ctx context.Context, actor entity.Actor) (*dto.CashSessionResponse, error) {
	s, err := uc.sessions.GetOpenByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: no hay caja abierta", domain.ErrNotFound)
	}
	out := dto.ToCashSessionResponse(s)
	return &out, nil
}

// List lista sesiones. Un operador sólo ve las propias.
func (uc *CashSessionUseCase) List(ctx context.Context, actor entity.Actor, in dto.CashSessionFilterRequest) (*dto.CashSessionListResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	if !actor.IsManager() {
		in.UserID = actor.UserID
	}
	list, err := uc.sessions.List(ctx, repository.CashSessionFilter{
		UserID: in.UserID,
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashSessionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.ToCashSessionResponse(s))
	}
	return &dto.CashSessionListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}
