package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pdv-api/internal/application/audit"
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/pos"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/jhoicas/pdv-api/pkg/metrics"
	"github.com/jhoicas/pdv-api/pkg/validate"
	"github.com/samber/lo"
)

// SaleUseCase registra, cancela y consulta ventas.
type SaleUseCase struct {
	txRunner  repository.TxRunner
	sales     repository.SaleRepository
	sessions  repository.CashSessionRepository
	users     repository.UserRepository
	customers repository.CustomerRepository
	stock     *inventory.RegisterMovementUseCase
	recorder  *audit.Recorder
	receipts  ReceiptGenerator
	store     StoreInfo
	metrics   *metrics.POSMetrics
	log       *logger.Logger
}

// Deps dependencias de SaleUseCase. Receipts puede ser nil si no se emiten cupons.
type Deps struct {
	TxRunner  repository.TxRunner
	Sales     repository.SaleRepository
	Sessions  repository.CashSessionRepository
	Users     repository.UserRepository
	Customers repository.CustomerRepository
	Stock     *inventory.RegisterMovementUseCase
	Recorder  *audit.Recorder
	Receipts  ReceiptGenerator
	Store     StoreInfo
	Metrics   *metrics.POSMetrics
	Log       *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(d Deps) *SaleUseCase {
	return &SaleUseCase{
		txRunner:  d.TxRunner,
		sales:     d.Sales,
		sessions:  d.Sessions,
		users:     d.Users,
		customers: d.Customers,
		stock:     d.Stock,
		recorder:  d.Recorder,
		receipts:  d.Receipts,
		store:     d.Store,
		metrics:   d.Metrics,
		log:       d.Log,
	}
}

// CreateSale registra la venta en una sola transacción: bloquea la sesión y los
// productos (orden ascendente de id), calcula totales, valida pagos, inserta
// cabecera, ítems y pagos, y genera una SAIDA por línea.
func (uc *SaleUseCase) CreateSale(ctx context.Context, actor entity.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if in.Force && !actor.IsManager() {
		return nil, fmt.Errorf("%w: sólo ADMIN o GERENTE pueden forzar stock negativo", domain.ErrForbidden)
	}

	sessionID := in.CashSessionID
	if sessionID == "" {
		open, err := uc.sessions.GetOpenByUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if open == nil {
			return nil, fmt.Errorf("%w: el operador no tiene caja abierta", domain.ErrSessionClosed)
		}
		sessionID = open.ID
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CashSessionID: sessionID,
		UserID:        actor.UserID,
		CustomerID:    in.CustomerID,
		Status:        entity.SaleStatusCompleted,
		CreatedAt:     time.Now(),
	}

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		session, err := repos.Sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("%w: sesión de caja %s", domain.ErrNotFound, sessionID)
		}
		if !session.IsOpen() {
			return domain.ErrSessionClosed
		}
		if session.UserID != actor.UserID && !actor.IsManager() {
			return fmt.Errorf("%w: la caja pertenece a otro operador", domain.ErrForbidden)
		}
		if in.CustomerID != nil {
			c, err := repos.Customers.GetByID(ctx, *in.CustomerID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, *in.CustomerID)
			}
		}

		ids := lo.Map(in.Items, func(it dto.SaleItemRequest, _ int) string { return it.ProductID })
		products, err := lockProducts(ctx, repos.Products, ids)
		if err != nil {
			return err
		}

		lines := make([]pos.Line, 0, len(in.Items))
		for _, it := range in.Items {
			p := products[it.ProductID]
			if !p.Active {
				return fmt.Errorf("%w: producto inactivo %s", domain.ErrInvalidInput, p.Name)
			}
			price := p.SalePrice
			if it.UnitPrice != nil {
				price = *it.UnitPrice
			}
			lines = append(lines, pos.Line{ProductID: p.ID, Quantity: it.Quantity, UnitPrice: pos.Money(price)})
		}
		totals, err := pos.ComputeTotals(lines, in.Discount)
		if err != nil {
			return err
		}
		tenders := lo.Map(in.Payments, func(p dto.PaymentRequest, _ int) pos.Tender {
			return pos.Tender{Method: p.Method, Amount: p.Amount}
		})
		if err := pos.ValidatePayments(tenders, totals.Net); err != nil {
			return err
		}

		sale.GrossTotal, sale.DiscountTotal, sale.NetTotal = totals.Gross, totals.Discount, totals.Net
		for _, l := range lines {
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Subtotal:  l.Subtotal(),
			})
		}
		for _, t := range tenders {
			sale.Payments = append(sale.Payments, entity.Payment{
				ID:     uuid.New().String(),
				SaleID: sale.ID,
				Method: t.Method,
				Amount: pos.Money(t.Amount),
			})
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		for _, item := range sale.Items {
			if _, err := uc.stock.ApplyInTx(ctx, repos, inventory.Movement{
				ProductID:     item.ProductID,
				UserID:        actor.UserID,
				Type:          entity.MovementTypeOut,
				Quantity:      item.Quantity,
				Reference:     &sale.ID,
				Force:         in.Force,
				Justification: in.Justification,
			}); err != nil {
				return err
			}
		}
		for i := range sale.Items {
			p := products[sale.Items[i].ProductID]
			sale.Items[i].Product = &entity.Product{ID: p.ID, Name: p.Name}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SaleCompleted(sale.NetTotal)
	for range sale.Items {
		uc.metrics.StockMovement(entity.MovementTypeOut)
	}
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("session_id", sale.CashSessionID).
		Str("net_total", sale.NetTotal.StringFixed(2)).
		Int("items", len(sale.Items)).
		Msg("venta registrada")

	out := dto.ToSaleResponse(sale)
	return &out, nil
}

// CancelSale cancela una venta CONCLUIDA de una sesión todavía abierta: devuelve
// el stock de cada línea (DEVOLUCAO), marca cancelled_at y audita.
func (uc *SaleUseCase) CancelSale(ctx context.Context, actor entity.Actor, id string, in dto.CancelSaleRequest) (*dto.SaleResponse, error) {
	if !actor.IsManager() {
		return nil, fmt.Errorf("%w: sólo ADMIN o GERENTE pueden cancelar ventas", domain.ErrForbidden)
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	justification := strings.TrimSpace(in.Justification)
	if justification == "" {
		return nil, domain.ErrJustificationRequired
	}

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.IsCompleted() {
			return fmt.Errorf("%w: la venta ya está cancelada", domain.ErrConflict)
		}
		session, err := repos.Sessions.GetForUpdate(ctx, sale.CashSessionID)
		if err != nil {
			return err
		}
		if session == nil || !session.IsOpen() {
			return fmt.Errorf("%w: la caja de la venta ya fue cerrada", domain.ErrSessionClosed)
		}

		ids := lo.Map(sale.Items, func(it entity.SaleItem, _ int) string { return it.ProductID })
		if _, err := lockProducts(ctx, repos.Products, ids); err != nil {
			return err
		}
		reason := "Cancelamento da venda " + sale.ID
		for _, item := range sale.Items {
			if _, err := uc.stock.ApplyInTx(ctx, repos, inventory.Movement{
				ProductID: item.ProductID,
				UserID:    actor.UserID,
				Type:      entity.MovementTypeReturn,
				Quantity:  item.Quantity,
				Reason:    &reason,
				Reference: &sale.ID,
			}); err != nil {
				return err
			}
		}
		if err := repos.Sales.MarkCancelled(ctx, sale.ID, time.Now()); err != nil {
			return err
		}
		_, err = uc.recorder.RecordInTx(ctx, repos.Audit, audit.Entry{
			UserID:        actor.UserID,
			Action:        entity.AuditActionSaleCancelled,
			Table:         "sales",
			RecordID:      sale.ID,
			Old:           map[string]string{"status": entity.SaleStatusCompleted},
			New:           map[string]string{"status": entity.SaleStatusCancelled},
			Justification: justification,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SaleCancelled()
	uc.log.Warn().Str("sale_id", id).Str("user_id", actor.UserID).Msg("venta cancelada")

	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToSaleResponse(sale)
	return &out, nil
}

// lockProducts bloquea los productos en orden ascendente de id (una vez cada uno)
// para que dos ventas concurrentes no se bloqueen mutuamente.
func lockProducts(ctx context.Context, repo repository.ProductRepository, ids []string) (map[string]*entity.Product, error) {
	ids = lo.Uniq(ids)
	sort.Strings(ids)
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		out[id] = p
	}
	return out, nil
}

func (uc *SaleUseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.Sale, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.UserID != actor.UserID && !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

// GetByID devuelve la venta con ítems y pagos. Un operador sólo ve las propias.
func (uc *SaleUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.SaleResponse, error) {
	sale, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToSaleResponse(sale)
	return &out, nil
}

// List lista ventas filtradas. Un operador sólo ve las propias.
func (uc *SaleUseCase) List(ctx context.Context, actor entity.Actor, in dto.SaleFilterRequest) (*dto.SaleListResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	if !actor.IsManager() {
		in.UserID = actor.UserID
	}
	list, err := uc.sales.List(ctx, repository.SaleFilter{
		CashSessionID: in.CashSessionID,
		UserID:        in.UserID,
		CustomerID:    in.CustomerID,
		Status:        in.Status,
		From:          in.From,
		To:            in.To,
		Limit:         in.Limit,
		Offset:        in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.ToSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// Receipt genera el cupom não fiscal de la venta en PDF.
func (uc *SaleUseCase) Receipt(ctx context.Context, actor entity.Actor, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("generador de cupom no configurado")
	}
	sale, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	data := ReceiptData{Store: uc.store, Sale: sale}
	if u, err := uc.users.GetByID(ctx, sale.UserID); err != nil {
		return nil, err
	} else if u != nil {
		data.Operator = u.Name
	}
	if sale.CustomerID != nil {
		c, err := uc.customers.GetByID(ctx, *sale.CustomerID)
		if err != nil {
			return nil, err
		}
		data.Customer = c
	}
	pdf, err := uc.receipts.GenerateReceiptPDF(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("generar cupom: %w", err)
	}
	return pdf, nil
}
