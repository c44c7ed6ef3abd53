package inventory

import (
	"context"
	"fmt"
	"strings"
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
	"github.com/shopspring/decimal"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (ENTRADA, SAIDA, AJUSTE, PERDA, DEVOLUCAO) con bloqueo de fila (SELECT FOR UPDATE).
type RegisterMovementUseCase struct {
	txRunner  repository.TxRunner
	movements repository.StockMovementRepository
	recorder  *audit.Recorder
	policy    pos.StockPolicy
	metrics   *metrics.POSMetrics
	log       *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner repository.TxRunner,
	movements repository.StockMovementRepository,
	recorder *audit.Recorder,
	policy pos.StockPolicy,
	m *metrics.POSMetrics,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:  txRunner,
		movements: movements,
		recorder:  recorder,
		policy:    policy,
		metrics:   m,
		log:       log,
	}
}

// Movement comando interno para aplicar un movimiento dentro de una tx.
// Quantity sigue la convención de MovementDelta (positiva salvo AJUSTE).
type Movement struct {
	ProductID     string
	UserID        string
	Type          string
	Quantity      int
	UnitCost      *decimal.Decimal
	Reason        *string
	Reference     *string
	Force         bool
	Justification string
}

// Applied resultado de aplicar un movimiento.
type Applied struct {
	Movement    *entity.StockMovement
	StockBefore int
	StockAfter  int
	Forced      bool
}

// RegisterMovement valida, abre la transacción y aplica el movimiento.
// PERDA y AJUSTE negativo se auditan y exigen motivo; forzar stock negativo exige perfil gerencial.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, actor entity.Actor, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	delta, err := pos.MovementDelta(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	if in.Force && !actor.IsManager() {
		return nil, fmt.Errorf("%w: sólo ADMIN o GERENTE pueden forzar stock negativo", domain.ErrForbidden)
	}
	if in.UnitCost != nil && in.Type != entity.MovementTypeIn {
		return nil, fmt.Errorf("%w: unit_cost sólo aplica a ENTRADA", domain.ErrInvalidInput)
	}

	justification := strings.TrimSpace(in.Justification)
	if justification == "" && in.Reason != nil {
		justification = strings.TrimSpace(*in.Reason)
	}
	audited := in.Type == entity.MovementTypeLoss || (in.Type == entity.MovementTypeAdjustment && delta < 0)
	if audited && justification == "" {
		return nil, fmt.Errorf("%w: %s requiere motivo", domain.ErrJustificationRequired, in.Type)
	}

	var applied *Applied
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		applied, err = uc.ApplyInTx(ctx, repos, Movement{
			ProductID:     in.ProductID,
			UserID:        actor.UserID,
			Type:          in.Type,
			Quantity:      in.Quantity,
			UnitCost:      in.UnitCost,
			Reason:        in.Reason,
			Reference:     in.Reference,
			Force:         in.Force,
			Justification: justification,
		})
		if err != nil {
			return err
		}
		if !audited {
			return nil
		}
		action := entity.AuditActionStockLoss
		if in.Type == entity.MovementTypeAdjustment {
			action = entity.AuditActionStockAdjustment
		}
		_, err = uc.recorder.RecordInTx(ctx, repos.Audit, audit.Entry{
			UserID:        actor.UserID,
			Action:        action,
			Table:         "stock_movements",
			RecordID:      applied.Movement.ID,
			Old:           map[string]int{"current_stock": applied.StockBefore},
			New:           map[string]int{"current_stock": applied.StockAfter},
			Justification: justification,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.StockMovement(in.Type)
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("type", in.Type).
		Int("delta", applied.Movement.Quantity).
		Int("stock", applied.StockAfter).
		Msg("movimiento de inventario registrado")

	out := dto.ToMovementResponse(applied.Movement)
	out.StockAfter = &applied.StockAfter
	return &out, nil
}

// ApplyInTx aplica un movimiento con los repositorios de la transacción del caller:
// bloquea el producto, verifica la política de stock, actualiza costo (ENTRADA con costo)
// y contador, e inserta el movimiento. Un negativo forzado queda auditado aquí mismo.
func (uc *RegisterMovementUseCase) ApplyInTx(ctx context.Context, repos repository.TxRepos, m Movement) (*Applied, error) {
	delta, err := pos.MovementDelta(m.Type, m.Quantity)
	if err != nil {
		return nil, err
	}
	// Bloquea la fila del producto (SELECT FOR UPDATE) para evitar condiciones de carrera
	product, err := repos.Products.GetForUpdate(ctx, m.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, m.ProductID)
	}

	next, forced, err := uc.policy.Apply(product.CurrentStock, delta, m.Force)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, product.Name)
	}
	if forced && strings.TrimSpace(m.Justification) == "" {
		return nil, fmt.Errorf("%w: stock negativo forzado", domain.ErrJustificationRequired)
	}

	if m.Type == entity.MovementTypeIn && m.UnitCost != nil {
		cost := pos.WeightedAverageCost(product.CurrentStock, product.CostPrice, delta, *m.UnitCost)
		if err := repos.Products.UpdateCost(ctx, product.ID, cost); err != nil {
			return nil, err
		}
	}
	if err := repos.Products.UpdateStock(ctx, product.ID, next); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		UserID:    m.UserID,
		Quantity:  delta,
		Type:      m.Type,
		Reason:    m.Reason,
		Reference: m.Reference,
		CreatedAt: time.Now(),
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	if forced {
		if _, err := uc.recorder.RecordInTx(ctx, repos.Audit, audit.Entry{
			UserID:        m.UserID,
			Action:        entity.AuditActionNegativeStock,
			Table:         "products",
			RecordID:      product.ID,
			Old:           map[string]int{"current_stock": product.CurrentStock},
			New:           map[string]int{"current_stock": next},
			Justification: m.Justification,
		}); err != nil {
			return nil, err
		}
	}

	return &Applied{Movement: mov, StockBefore: product.CurrentStock, StockAfter: next, Forced: forced}, nil
}

// GetByID obtiene un movimiento.
func (uc *RegisterMovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToMovementResponse(m)
	return &out, nil
}

// List lista movimientos (todos o de un producto), más recientes primero.
func (uc *RegisterMovementUseCase) List(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	list, err := uc.movements.List(ctx, repository.MovementFilter{
		ProductID: in.ProductID,
		Type:      in.Type,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}
