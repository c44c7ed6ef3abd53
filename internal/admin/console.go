package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pdv-api/internal/application/audit"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/jhoicas/pdv-api/pkg/validate"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ModelInfo entrada del índice de la consola.
type ModelInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Perms Perms  `json:"perms"`
}

// ChangelistQuery parámetros del listado. Filters acepta "campo", "campo__gte" y "campo__lte".
type ChangelistQuery struct {
	Search   string
	Ordering string
	Filters  map[string]string
	Limit    int
	Offset   int
}

// Changelist página del listado de un modelo.
type Changelist struct {
	Model    string                   `json:"model"`
	Columns  []string                 `json:"columns"`
	Editable []string                 `json:"editable"`
	Filters  []string                 `json:"filters"`
	Search   []string                 `json:"search"`
	Rows     []map[string]interface{} `json:"rows"`
	Total    int64                    `json:"total"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

// InlineRows filas hijas en el detalle.
type InlineRows struct {
	Table    string                   `json:"table"`
	Label    string                   `json:"label"`
	Fields   []string                 `json:"fields"`
	Readonly []string                 `json:"readonly"`
	Rows     []map[string]interface{} `json:"rows"`
}

// Detail registro con sus fieldsets e inlines.
type Detail struct {
	Model     string                 `json:"model"`
	Record    map[string]interface{} `json:"record"`
	Fieldsets []Fieldset             `json:"fieldsets"`
	Readonly  []string               `json:"readonly"`
	Inlines   []InlineRows           `json:"inlines,omitempty"`
	Perms     Perms                  `json:"perms"`
}

// BulkRow cambio de una fila en la edición en lista.
type BulkRow struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// Console store genérico de la consola sobre gorm.
type Console struct {
	db       *gorm.DB
	registry *Registry
	recorder *audit.Recorder
	log      *logger.Logger
}

// NewConsole construye la consola.
func NewConsole(db *gorm.DB, registry *Registry, recorder *audit.Recorder, log *logger.Logger) *Console {
	return &Console{db: db, registry: registry, recorder: recorder, log: log}
}

func (c *Console) model(actor entity.Actor, name string, allowed func(Perms) bool) (*ModelAdmin, error) {
	m, ok := c.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: modelo %s", domain.ErrNotFound, name)
	}
	p := m.permsFor(actor.Role)
	if !p.View || !allowed(p) {
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, name)
	}
	return m, nil
}

// Index modelos visibles para el perfil, con sus permisos efectivos.
func (c *Console) Index(actor entity.Actor) []ModelInfo {
	out := make([]ModelInfo, 0, len(c.registry.order))
	for _, m := range c.registry.Models() {
		p := m.permsFor(actor.Role)
		if !p.View {
			continue
		}
		out = append(out, ModelInfo{Name: m.Name, Label: m.Label, Perms: p})
	}
	return out
}

// Changelist lista un modelo con filtros de list_filter, búsqueda, orden y paginación.
func (c *Console) Changelist(ctx context.Context, actor entity.Actor, name string, q ChangelistQuery) (*Changelist, error) {
	m, err := c.model(actor, name, func(p Perms) bool { return p.View })
	if err != nil {
		return nil, err
	}
	where, err := m.filterClauses(q.Filters)
	if err != nil {
		return nil, err
	}
	order, err := m.orderBy(q.Ordering)
	if err != nil {
		return nil, err
	}
	if q.Limit <= 0 || q.Limit > maxLimit {
		q.Limit = defaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	scoped := func() *gorm.DB {
		tx := c.db.WithContext(ctx).Table(m.Name)
		for _, w := range where {
			tx = tx.Where(w.expr, w.arg)
		}
		return m.search(tx, q.Search)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, translate("contar "+m.Name, err)
	}
	cols := m.display()
	rows := []map[string]interface{}{}
	err = scoped().
		Select(lo.Map(cols, func(col string, _ int) string { return m.Name + "." + col })).
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, translate("listar "+m.Name, err)
	}
	for _, r := range rows {
		normalize(m, r)
	}

	return &Changelist{
		Model:    m.Name,
		Columns:  cols,
		Editable: lo.Ternary(m.permsFor(actor.Role).Change, m.ListEditable, []string{}),
		Filters:  m.ListFilter,
		Search:   m.SearchFields,
		Rows:     rows,
		Total:    total,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}, nil
}

type condition struct {
	expr string
	arg  interface{}
}

func (m *ModelAdmin) filterClauses(filters map[string]string) ([]condition, error) {
	keys := lo.Keys(filters)
	sort.Strings(keys)
	out := make([]condition, 0, len(keys))
	for _, key := range keys {
		col, op, _ := strings.Cut(key, "__")
		if !lo.Contains(m.ListFilter, col) {
			return nil, fmt.Errorf("%w: no se puede filtrar %s por %s", domain.ErrInvalidInput, m.Name, col)
		}
		sqlOp, ok := map[string]string{"": "=", "gte": ">=", "lte": "<="}[op]
		if !ok {
			return nil, fmt.Errorf("%w: operador de filtro %s", domain.ErrInvalidInput, op)
		}
		v, err := parseFilter(m.field(col), filters[key])
		if err != nil {
			return nil, err
		}
		out = append(out, condition{expr: fmt.Sprintf("%s.%s %s ?", m.Name, col, sqlOp), arg: v})
	}
	return out, nil
}

// likeEscaper neutraliza los comodines de LIKE en el texto buscado.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// search aplica ?q= sobre search_fields; "rel__campo" agrega un LEFT JOIN con alias rel_<rel>.
func (m *ModelAdmin) search(tx *gorm.DB, q string) *gorm.DB {
	q = strings.TrimSpace(q)
	if q == "" || len(m.SearchFields) == 0 {
		return tx
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	joined := map[string]bool{}
	parts := make([]string, 0, len(m.SearchFields))
	args := make([]interface{}, 0, len(m.SearchFields))
	for _, f := range m.SearchFields {
		col := m.Name + "." + f
		if rel, field, ok := strings.Cut(f, "__"); ok {
			alias := "rel_" + rel
			if !joined[rel] {
				r := m.Relations[rel]
				tx = tx.Joins(fmt.Sprintf("LEFT JOIN %s AS %s ON %s.id = %s.%s", r.Table, alias, alias, m.Name, r.FK))
				joined[rel] = true
			}
			col = alias + "." + field
		}
		parts = append(parts, fmt.Sprintf("LOWER(CAST(%s AS TEXT)) LIKE ? ESCAPE '!'", col))
		args = append(args, pattern)
	}
	return tx.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func (m *ModelAdmin) orderBy(ordering string) (string, error) {
	if ordering == "" {
		ordering = m.Ordering
	}
	if ordering == "" {
		ordering = m.pk()
	}
	col, desc := strings.TrimPrefix(ordering, "-"), strings.HasPrefix(ordering, "-")
	if !m.has(col) {
		return "", fmt.Errorf("%w: no se puede ordenar %s por %s", domain.ErrInvalidInput, m.Name, col)
	}
	out := m.Name + "." + col
	if desc {
		out += " DESC"
	}
	if col != m.pk() {
		out += ", " + m.Name + "." + m.pk()
	}
	return out, nil
}

// Detail devuelve el registro con fieldsets e inlines.
func (c *Console) Detail(ctx context.Context, actor entity.Actor, name, id string) (*Detail, error) {
	m, err := c.model(actor, name, func(p Perms) bool { return p.View })
	if err != nil {
		return nil, err
	}
	record, err := c.get(c.db.WithContext(ctx), m, id)
	if err != nil {
		return nil, err
	}
	out := &Detail{
		Model:     m.Name,
		Record:    record,
		Fieldsets: m.fieldsets(),
		Readonly:  m.readonlyFields(),
		Perms:     m.permsFor(actor.Role),
	}
	for _, in := range m.Inlines {
		rows := []map[string]interface{}{}
		tx := c.db.WithContext(ctx).Table(in.Table).Where(in.FK+" = ?", id)
		if len(in.Fields) > 0 {
			tx = tx.Select(in.Fields)
		}
		if err := tx.Find(&rows).Error; err != nil {
			return nil, translate("inline "+in.Table, err)
		}
		for _, r := range rows {
			normalize(nil, r)
		}
		out.Inlines = append(out.Inlines, InlineRows{
			Table: in.Table, Label: in.Label, Fields: in.Fields, Readonly: in.Readonly, Rows: rows,
		})
	}
	return out, nil
}

func (c *Console) get(tx *gorm.DB, m *ModelAdmin, id string) (map[string]interface{}, error) {
	rows := []map[string]interface{}{}
	err := tx.Table(m.Name).Select(m.columns()).Where(m.pk()+" = ?", id).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, translate("obtener "+m.Name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, m.Name, id)
	}
	return normalize(m, rows[0]), nil
}

// Add crea un registro. Campos desconocidos o de sólo lectura se rechazan.
func (c *Console) Add(ctx context.Context, actor entity.Actor, name string, in map[string]interface{}) (*Detail, error) {
	m, err := c.model(actor, name, func(p Perms) bool { return p.Add })
	if err != nil {
		return nil, err
	}
	values, err := m.decode(in, m.isReadonly)
	if err != nil {
		return nil, err
	}
	fieldErrs := map[string]string{}
	now := time.Now()
	for _, col := range m.columns() {
		if _, ok := values[col]; ok {
			continue
		}
		f := m.field(col)
		switch {
		case col == m.pk():
			values[col] = uuid.New().String()
		case col == "created_at" || col == "updated_at":
			values[col] = now
		default:
			zero := zeroValue(f)
			if err := validate.Var(col, zero, f.Tag.Get("validate")); err != nil {
				var verr *validate.Error
				if errors.As(err, &verr) {
					for k, v := range verr.Fields {
						fieldErrs[k] = v
					}
				}
				continue
			}
			values[col] = zero
		}
	}
	if len(fieldErrs) > 0 {
		return nil, &validate.Error{Fields: fieldErrs}
	}
	if err := c.db.WithContext(ctx).Table(m.Name).Create(values).Error; err != nil {
		return nil, translate("crear "+m.Name, err)
	}
	id := fmt.Sprint(values[m.pk()])
	c.log.Info().Str("model", m.Name).Str("id", id).Str("user_id", actor.UserID).Msg("consola: registro creado")
	return c.Detail(ctx, actor, name, id)
}

// decode valida las claves de entrada y convierte cada valor al tipo del campo.
func (m *ModelAdmin) decode(in map[string]interface{}, locked func(string) bool) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(in))
	fieldErrs := map[string]string{}
	for col, raw := range in {
		if !m.has(col) {
			fieldErrs[col] = "campo desconocido"
			continue
		}
		if locked(col) {
			fieldErrs[col] = "es de sólo lectura"
			continue
		}
		v, err := decodeInput(m.field(col), raw)
		if err != nil {
			var verr *validate.Error
			if errors.As(err, &verr) {
				for k, msg := range verr.Fields {
					fieldErrs[k] = msg
				}
				continue
			}
			return nil, err
		}
		values[col] = v
	}
	if len(fieldErrs) > 0 {
		return nil, &validate.Error{Fields: fieldErrs}
	}
	return values, nil
}

// Change modifica un registro. En modelos auditados exige justificación.
func (c *Console) Change(ctx context.Context, actor entity.Actor, name, id string, in map[string]interface{}, justification string) (*Detail, error) {
	m, err := c.model(actor, name, func(p Perms) bool { return p.Change })
	if err != nil {
		return nil, err
	}
	values, err := m.decode(in, m.isReadonly)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: sin campos a modificar", domain.ErrInvalidInput)
	}
	if m.AuditChange && strings.TrimSpace(justification) == "" {
		return nil, domain.ErrJustificationRequired
	}
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return c.update(ctx, tx, actor, m, id, values, entity.AuditActionConsoleChange, justification)
	})
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("model", m.Name).Str("id", id).Str("user_id", actor.UserID).Msg("consola: registro modificado")
	return c.Detail(ctx, actor, name, id)
}

// BulkEdit aplica cambios de list_editable a varias filas en una sola transacción.
func (c *Console) BulkEdit(ctx context.Context, actor entity.Actor, name string, rows []BulkRow, justification string) (int, error) {
	m, err := c.model(actor, name, func(p Perms) bool { return p.Change })
	if err != nil {
		return 0, err
	}
	if len(m.ListEditable) == 0 {
		return 0, fmt.Errorf("%w: %s no tiene campos editables en lista", domain.ErrForbidden, m.Name)
	}
	if m.AuditChange && strings.TrimSpace(justification) == "" {
		return 0, domain.ErrJustificationRequired
	}
	notEditable := func(col string) bool { return !lo.Contains(m.ListEditable, col) }
	decoded := make([]map[string]interface{}, len(rows))
	for i, r := range rows {
		if r.ID == "" {
			return 0, fmt.Errorf("%w: fila %d sin id", domain.ErrInvalidInput, i)
		}
		if decoded[i], err = m.decode(r.Fields, notEditable); err != nil {
			return 0, err
		}
	}
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, r := range rows {
			if len(decoded[i]) == 0 {
				continue
			}
			if err := c.update(ctx, tx, actor, m, r.ID, decoded[i], entity.AuditActionConsoleBulkChange, justification); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	c.log.Info().Str("model", m.Name).Int("rows", len(rows)).Str("user_id", actor.UserID).Msg("consola: edición en lista")
	return len(rows), nil
}

func (c *Console) update(ctx context.Context, tx *gorm.DB, actor entity.Actor, m *ModelAdmin, id string, values map[string]interface{}, action, justification string) error {
	old, err := c.get(tx, m, id)
	if err != nil {
		return err
	}
	set := make(map[string]interface{}, len(values)+1)
	for k, v := range values {
		set[k] = v
	}
	if m.has("updated_at") {
		set["updated_at"] = time.Now()
	}
	if err := tx.Table(m.Name).Where(m.pk()+" = ?", id).Updates(set).Error; err != nil {
		return translate("modificar "+m.Name, err)
	}
	if !m.AuditChange {
		return nil
	}
	_, err = c.recorder.RecordInTx(ctx, auditWriter{tx}, audit.Entry{
		UserID:        actor.UserID,
		Action:        action,
		Table:         m.Name,
		RecordID:      id,
		Old:           lo.PickByKeys(old, lo.Keys(values)),
		New:           values,
		Justification: justification,
	})
	return err
}

// Delete borra un registro. PROTECT se reporta como ErrReferenced.
func (c *Console) Delete(ctx context.Context, actor entity.Actor, name, id, justification string) error {
	m, err := c.model(actor, name, func(p Perms) bool { return p.Delete })
	if err != nil {
		return err
	}
	if m.AuditDelete && strings.TrimSpace(justification) == "" {
		return domain.ErrJustificationRequired
	}
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := c.get(tx, m, id)
		if err != nil {
			return err
		}
		if err := guardDelete(tx, m, id); err != nil {
			return err
		}
		res := tx.Exec("DELETE FROM "+m.Name+" WHERE "+m.pk()+" = ?", id)
		if res.Error != nil {
			return translate("borrar "+m.Name, res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if !m.AuditDelete {
			return nil
		}
		_, err = c.recorder.RecordInTx(ctx, auditWriter{tx}, audit.Entry{
			UserID:        actor.UserID,
			Action:        entity.AuditActionConsoleDelete,
			Table:         m.Name,
			RecordID:      id,
			Old:           old,
			Justification: justification,
		})
		return err
	})
	if err != nil {
		return err
	}
	c.log.Info().Str("model", m.Name).Str("id", id).Str("user_id", actor.UserID).Msg("consola: registro borrado")
	return nil
}

// guardDelete impide borrar una venta cuya sesión de caja sigue abierta.
func guardDelete(tx *gorm.DB, m *ModelAdmin, id string) error {
	if m.Name != "sales" {
		return nil
	}
	var open int64
	err := tx.Table("sales").
		Joins("JOIN cash_sessions ON cash_sessions.id = sales.cash_session_id").
		Where("sales.id = ? AND cash_sessions.status = ?", id, entity.CashSessionOpen).
		Count(&open).Error
	if err != nil {
		return translate("borrar sales", err)
	}
	if open > 0 {
		return fmt.Errorf("%w: la venta pertenece a una sesión de caja abierta", domain.ErrConflict)
	}
	return nil
}

// auditWriter escribe auditoría con la tx gorm de la consola.
type auditWriter struct{ tx *gorm.DB }

func (w auditWriter) Create(ctx context.Context, log *entity.AuditLog) error {
	return translate("crear auditoría", w.tx.WithContext(ctx).Omit(clause.Associations).Create(log).Error)
}

// translate mapea los errores traducidos por el dialecto gorm a errores de dominio.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, domain.ErrReferenced)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	// el dialecto no traduce los errores de Exec crudo
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "foreign key constraint"):
		return fmt.Errorf("%s: %w", op, domain.ErrReferenced)
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}
