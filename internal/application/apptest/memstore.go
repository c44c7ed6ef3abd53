// Package apptest provee un almacén en memoria que implementa los puertos de repository
// para los tests de casos de uso. Run serializa las transacciones y restaura el estado
// si fn falla, igual que el Rollback de PostgreSQL.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type state struct {
	users      map[string]entity.User
	categories map[string]entity.Category
	products   map[string]entity.Product
	movements  []entity.StockMovement
	customers  map[string]entity.Customer
	sessions   map[string]entity.CashSession
	sales      map[string]entity.Sale
	audit      []entity.AuditLog
}

func newState() state {
	return state{
		users:      map[string]entity.User{},
		categories: map[string]entity.Category{},
		products:   map[string]entity.Product{},
		customers:  map[string]entity.Customer{},
		sessions:   map[string]entity.CashSession{},
		sales:      map[string]entity.Sale{},
	}
}

func (s state) clone() state {
	out := newState()
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.categories {
		out.categories[k] = v
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for k, v := range s.customers {
		out.customers[k] = v
	}
	for k, v := range s.sessions {
		out.sessions[k] = v
	}
	for k, v := range s.sales {
		out.sales[k] = cloneSale(v)
	}
	out.movements = append([]entity.StockMovement(nil), s.movements...)
	out.audit = append([]entity.AuditLog(nil), s.audit...)
	return out
}

func cloneSale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	s.Payments = append([]entity.Payment(nil), s.Payments...)
	return s
}

// Store almacén en memoria. El valor cero no es usable: usar NewStore.
type Store struct {
	mu sync.Mutex
	st state

	// FailOn fuerza un error en la operación indicada ("sales.create", "movements.create", ...).
	FailOn map[string]error
	// Commits cuenta las transacciones confirmadas.
	Commits int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), FailOn: map[string]error{}}
}

var _ repository.TxRunner = (*Store)(nil)

// Run ejecuta fn con repos de la "transacción". Un error restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	r := &repos{s: s, inTx: true}
	if err := fn(r.txRepos()); err != nil {
		s.st = snapshot
		return err
	}
	s.Commits++
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repos() repository.TxRepos {
	return (&repos{s: s}).txRepos()
}

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() repository.UserRepository { return &userRepo{&repos{s: s}} }

// Categories repositorio de categorías fuera de transacción.
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{&repos{s: s}} }

type repos struct {
	s    *Store
	inTx bool
}

func (r *repos) txRepos() repository.TxRepos {
	return repository.TxRepos{
		Products:  &productRepo{r},
		Movements: &movementRepo{r},
		Customers: &customerRepo{r},
		Sessions:  &sessionRepo{r},
		Sales:     &saleRepo{r},
		Audit:     &auditRepo{r},
	}
}

// with ejecuta fn con el estado, tomando el lock si no se está dentro de Run.
func (r *repos) with(op string, fn func(st *state) error) error {
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if err, ok := r.s.FailOn[op]; ok {
		return err
	}
	return fn(&r.s.st)
}

func page(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

// ── Seed / inspección ────────────────────────────────────────────────────────

// PutUser inserta o reemplaza un usuario.
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.ID] = u
}

// PutProduct inserta o reemplaza un producto.
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Category = nil
	s.st.products[p.ID] = p
}

// PutCustomer inserta o reemplaza un cliente.
func (s *Store) PutCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.customers[c.ID] = c
}

// PutSession inserta o reemplaza una sesión de caja.
func (s *Store) PutSession(cs entity.CashSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sessions[cs.ID] = cs
}

// Product devuelve una copia del producto.
func (s *Store) Product(id string) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.products[id]
}

// Session devuelve una copia de la sesión.
func (s *Store) Session(id string) entity.CashSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.sessions[id]
}

// Sale devuelve una copia de la venta.
func (s *Store) Sale(id string) (entity.Sale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.st.sales[id]
	return cloneSale(v), ok
}

// SalesCount cantidad de ventas persistidas.
func (s *Store) SalesCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.sales)
}

// Movements copia de los movimientos en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.st.movements...)
}

// AuditLogs copia de la auditoría en orden de inserción.
func (s *Store) AuditLogs() []entity.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.AuditLog(nil), s.st.audit...)
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct{ *repos }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.with("users.create", func(st *state) error {
		for _, e := range st.users {
			if e.Email == u.Email || e.Name == u.Name {
				return domain.ErrDuplicate
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.with("users.get", func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.with("users.get", func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	return r.with("users.update", func(st *state) error {
		for id, e := range st.users {
			if id != u.ID && (e.Email == u.Email || e.Name == u.Name) {
				return domain.ErrDuplicate
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.with("users.list", func(st *state) error {
		all := make([]entity.User, 0, len(st.users))
		for _, u := range st.users {
			all = append(all, u)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		from, to := page(len(all), limit, offset)
		for i := from; i < to; i++ {
			u := all[i]
			out = append(out, &u)
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	return r.with("users.delete", func(st *state) error {
		for _, s := range st.sessions {
			if s.UserID == id {
				return domain.ErrReferenced
			}
		}
		for _, m := range st.movements {
			if m.UserID == id {
				return domain.ErrReferenced
			}
		}
		delete(st.users, id)
		return nil
	})
}

// ── Categories ───────────────────────────────────────────────────────────────

type categoryRepo struct{ *repos }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.with("categories.create", func(st *state) error {
		for _, e := range st.categories {
			if e.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.with("categories.get", func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.with("categories.update", func(st *state) error {
		for id, e := range st.categories {
			if id != c.ID && e.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *categoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.with("categories.list", func(st *state) error {
		all := make([]entity.Category, 0, len(st.categories))
		for _, c := range st.categories {
			all = append(all, c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		from, to := page(len(all), limit, offset)
		for i := from; i < to; i++ {
			c := all[i]
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

// Delete deja los productos de la categoría sin categoría (ON DELETE SET NULL).
func (r *categoryRepo) Delete(_ context.Context, id string) error {
	return r.with("categories.delete", func(st *state) error {
		for pid, p := range st.products {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
				st.products[pid] = p
			}
		}
		delete(st.categories, id)
		return nil
	})
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &productRepo{&repos{s: s}} }

// ── Products ─────────────────────────────────────────────────────────────────

type productRepo struct{ *repos }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.with("products.create", func(st *state) error {
		for _, e := range st.products {
			if e.SKU == p.SKU || e.Barcode == p.Barcode {
				return domain.ErrDuplicate
			}
		}
		cp := *p
		cp.Category = nil
		st.products[p.ID] = cp
		return nil
	})
}

func (r *productRepo) get(op, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.with(op, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.get("products.get", id)
}

func (r *productRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	return r.get("products.lock", id)
}

func (r *productRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	var out *entity.Product
	err := r.with("products.get", func(st *state) error {
		for _, p := range st.products {
			if p.Barcode == barcode {
				p := p
				out = &p
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.with("products.update", func(st *state) error {
		prev, ok := st.products[p.ID]
		if !ok {
			return nil
		}
		for id, e := range st.products {
			if id != p.ID && (e.SKU == p.SKU || e.Barcode == p.Barcode) {
				return domain.ErrDuplicate
			}
		}
		cp := *p
		cp.Category = nil
		cp.CurrentStock = prev.CurrentStock
		st.products[p.ID] = cp
		return nil
	})
}

func (r *productRepo) UpdateStock(_ context.Context, id string, stock int) error {
	return r.with("products.stock", func(st *state) error {
		p := st.products[id]
		p.CurrentStock = stock
		st.products[id] = p
		return nil
	})
}

func (r *productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	return r.with("products.cost", func(st *state) error {
		p := st.products[id]
		p.CostPrice = cost
		st.products[id] = p
		return nil
	})
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	return r.list(func(p entity.Product) bool {
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			return false
		}
		if f.Active != nil && p.Active != *f.Active {
			return false
		}
		if q := strings.ToLower(f.Search); q != "" {
			return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) || p.Barcode == f.Search
		}
		return true
	}, f.Limit, f.Offset)
}

func (r *productRepo) ListLowStock(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	return r.list(func(p entity.Product) bool { return p.Active && p.IsLowStock() }, limit, offset)
}

func (r *productRepo) list(keep func(entity.Product) bool, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.with("products.list", func(st *state) error {
		var all []entity.Product
		for _, p := range st.products {
			if keep(p) {
				all = append(all, p)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		from, to := page(len(all), limit, offset)
		for i := from; i < to; i++ {
			p := all[i]
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	return r.with("products.delete", func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == id {
				return domain.ErrReferenced
			}
		}
		for _, s := range st.sales {
			for _, it := range s.Items {
				if it.ProductID == id {
					return domain.ErrReferenced
				}
			}
		}
		delete(st.products, id)
		return nil
	})
}

// ── Movements ────────────────────────────────────────────────────────────────

type movementRepo struct{ *repos }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.with("movements.create", func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	err := r.with("movements.get", func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				m := m
				out = &m
			}
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.with("movements.list", func(st *state) error {
		var all []entity.StockMovement
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if (f.ProductID == "" || m.ProductID == f.ProductID) && (f.Type == "" || m.Type == f.Type) {
				all = append(all, m)
			}
		}
		from, to := page(len(all), f.Limit, f.Offset)
		for i := from; i < to; i++ {
			m := all[i]
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

// Customers repositorio de clientes fuera de transacción.
func (s *Store) Customers() repository.CustomerRepository { return &customerRepo{&repos{s: s}} }

// ── Customers ────────────────────────────────────────────────────────────────

type customerRepo struct{ *repos }

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.with("customers.create", func(st *state) error {
		if c.TaxID != nil {
			for _, e := range st.customers {
				if e.TaxID != nil && *e.TaxID == *c.TaxID {
					return domain.ErrDuplicate
				}
			}
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.with("customers.get", func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *customerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.with("customers.update", func(st *state) error {
		if c.TaxID != nil {
			for id, e := range st.customers {
				if id != c.ID && e.TaxID != nil && *e.TaxID == *c.TaxID {
					return domain.ErrDuplicate
				}
			}
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *customerRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	err := r.with("customers.list", func(st *state) error {
		q := strings.ToLower(search)
		var all []entity.Customer
		for _, c := range st.customers {
			if q == "" || strings.Contains(strings.ToLower(c.Name), q) || (c.TaxID != nil && strings.Contains(*c.TaxID, search)) {
				all = append(all, c)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		from, to := page(len(all), limit, offset)
		for i := from; i < to; i++ {
			c := all[i]
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

// Delete deja las ventas del cliente sin cliente (ON DELETE SET NULL).
func (r *customerRepo) Delete(_ context.Context, id string) error {
	return r.with("customers.delete", func(st *state) error {
		for sid, s := range st.sales {
			if s.CustomerID != nil && *s.CustomerID == id {
				s.CustomerID = nil
				st.sales[sid] = s
			}
		}
		delete(st.customers, id)
		return nil
	})
}

// Sessions repositorio de sesiones fuera de transacción.
func (s *Store) Sessions() repository.CashSessionRepository { return &sessionRepo{&repos{s: s}} }

// ── Cash sessions ────────────────────────────────────────────────────────────

type sessionRepo struct{ *repos }

func (r *sessionRepo) Create(_ context.Context, cs *entity.CashSession) error {
	return r.with("sessions.create", func(st *state) error {
		if cs.Status == entity.CashSessionOpen {
			for _, e := range st.sessions {
				if e.UserID == cs.UserID && e.Status == entity.CashSessionOpen {
					return domain.ErrDuplicate
				}
			}
		}
		st.sessions[cs.ID] = *cs
		return nil
	})
}

func (r *sessionRepo) get(op, id string) (*entity.CashSession, error) {
	var out *entity.CashSession
	err := r.with(op, func(st *state) error {
		if cs, ok := st.sessions[id]; ok {
			out = &cs
		}
		return nil
	})
	return out, err
}

func (r *sessionRepo) GetByID(_ context.Context, id string) (*entity.CashSession, error) {
	return r.get("sessions.get", id)
}

func (r *sessionRepo) GetForUpdate(_ context.Context, id string) (*entity.CashSession, error) {
	return r.get("sessions.lock", id)
}

func (r *sessionRepo) GetOpenByUser(_ context.Context, userID string) (*entity.CashSession, error) {
	var out *entity.CashSession
	err := r.with("sessions.get", func(st *state) error {
		for _, cs := range st.sessions {
			if cs.UserID == userID && cs.Status == entity.CashSessionOpen {
				cs := cs
				out = &cs
			}
		}
		return nil
	})
	return out, err
}

func (r *sessionRepo) Close(_ context.Context, cs *entity.CashSession) error {
	return r.with("sessions.close", func(st *state) error {
		st.sessions[cs.ID] = *cs
		return nil
	})
}

func (r *sessionRepo) List(_ context.Context, f repository.CashSessionFilter) ([]*entity.CashSession, error) {
	var out []*entity.CashSession
	err := r.with("sessions.list", func(st *state) error {
		var all []entity.CashSession
		for _, cs := range st.sessions {
			if (f.UserID == "" || cs.UserID == f.UserID) && (f.Status == "" || cs.Status == f.Status) {
				all = append(all, cs)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].OpenedAt.After(all[j].OpenedAt) })
		from, to := page(len(all), f.Limit, f.Offset)
		for i := from; i < to; i++ {
			cs := all[i]
			out = append(out, &cs)
		}
		return nil
	})
	return out, err
}

func (r *sessionRepo) SumCashPayments(_ context.Context, sessionID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.with("sessions.sum", func(st *state) error {
		for _, s := range st.sales {
			if s.CashSessionID != sessionID || s.Status != entity.SaleStatusCompleted {
				continue
			}
			for _, p := range s.Payments {
				if p.Method == entity.PaymentMethodCash {
					total = total.Add(p.Amount)
				}
			}
		}
		return nil
	})
	return total, err
}

// ── Sales ────────────────────────────────────────────────────────────────────

type saleRepo struct{ *repos }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.with("sales.create", func(st *state) error {
		st.sales[s.ID] = cloneSale(*s)
		return nil
	})
}

func (r *saleRepo) get(op, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.with(op, func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return nil
		}
		cp := cloneSale(s)
		for i := range cp.Items {
			if p, ok := st.products[cp.Items[i].ProductID]; ok {
				cp.Items[i].Product = &entity.Product{ID: p.ID, Name: p.Name, Barcode: p.Barcode}
			}
		}
		out = &cp
		return nil
	})
	return out, err
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	return r.get("sales.get", id)
}

func (r *saleRepo) GetForUpdate(_ context.Context, id string) (*entity.Sale, error) {
	return r.get("sales.lock", id)
}

func (r *saleRepo) MarkCancelled(_ context.Context, id string, at time.Time) error {
	return r.with("sales.cancel", func(st *state) error {
		s := st.sales[id]
		s.Status = entity.SaleStatusCancelled
		s.CancelledAt = &at
		st.sales[id] = s
		return nil
	})
}

func (r *saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.with("sales.list", func(st *state) error {
		var all []entity.Sale
		for _, s := range st.sales {
			switch {
			case f.CashSessionID != "" && s.CashSessionID != f.CashSessionID,
				f.UserID != "" && s.UserID != f.UserID,
				f.CustomerID != "" && (s.CustomerID == nil || *s.CustomerID != f.CustomerID),
				f.Status != "" && s.Status != f.Status,
				f.From != nil && s.CreatedAt.Before(*f.From),
				f.To != nil && s.CreatedAt.After(*f.To):
				continue
			}
			s.Items, s.Payments = nil, nil
			all = append(all, s)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		from, to := page(len(all), f.Limit, f.Offset)
		for i := from; i < to; i++ {
			s := all[i]
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

// Audit repositorio de auditoría fuera de transacción.
func (s *Store) Audit() repository.AuditLogRepository { return &auditRepo{&repos{s: s}} }

// ── Audit ────────────────────────────────────────────────────────────────────

type auditRepo struct{ *repos }

func (r *auditRepo) Create(_ context.Context, a *entity.AuditLog) error {
	return r.with("audit.create", func(st *state) error {
		st.audit = append(st.audit, *a)
		return nil
	})
}

func (r *auditRepo) GetByID(_ context.Context, id string) (*entity.AuditLog, error) {
	var out *entity.AuditLog
	err := r.with("audit.get", func(st *state) error {
		for _, a := range st.audit {
			if a.ID == id {
				a := a
				out = &a
			}
		}
		return nil
	})
	return out, err
}

func (r *auditRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	err := r.with("audit.list", func(st *state) error {
		var all []entity.AuditLog
		for i := len(st.audit) - 1; i >= 0; i-- {
			a := st.audit[i]
			if (f.UserID == "" || a.UserID == f.UserID) && (f.AffectedTable == "" || a.AffectedTable == f.AffectedTable) && (f.RecordID == "" || a.RecordID == f.RecordID) {
				all = append(all, a)
			}
		}
		from, to := page(len(all), f.Limit, f.Offset)
		for i := from; i < to; i++ {
			a := all[i]
			out = append(out, &a)
		}
		return nil
	})
	return out, err
}
