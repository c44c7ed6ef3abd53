package admin

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Registry modelos registrados en la consola, en orden de registro.
type Registry struct {
	models map[string]*ModelAdmin
	order  []string
}

// NewRegistry parsea el esquema gorm de cada modelo y verifica que los campos declarados existan.
func NewRegistry(db *gorm.DB, models ...ModelAdmin) (*Registry, error) {
	cache := &sync.Map{}
	r := &Registry{models: make(map[string]*ModelAdmin, len(models))}
	for i := range models {
		m := models[i]
		sch, err := schema.Parse(m.Model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("admin: parsear %s: %w", m.Name, err)
		}
		if sch.Table != m.Name {
			return nil, fmt.Errorf("admin: %s no coincide con la tabla %s", m.Name, sch.Table)
		}
		m.schema = sch
		if err := m.check(); err != nil {
			return nil, err
		}
		if _, dup := r.models[m.Name]; dup {
			return nil, fmt.Errorf("admin: modelo %s registrado dos veces", m.Name)
		}
		r.models[m.Name] = &m
		r.order = append(r.order, m.Name)
	}
	return r, nil
}

// Get devuelve el modelo registrado con ese nombre.
func (r *Registry) Get(name string) (*ModelAdmin, bool) {
	m, ok := r.models[name]
	return m, ok
}

// Models devuelve los modelos en orden de registro.
func (r *Registry) Models() []*ModelAdmin {
	return lo.Map(r.order, func(n string, _ int) *ModelAdmin { return r.models[n] })
}

func (m *ModelAdmin) check() error {
	declared := lo.Flatten([][]string{m.ListDisplay, m.ListFilter, m.ListEditable, m.Readonly})
	for _, fs := range m.Fieldsets {
		declared = append(declared, fs.Fields...)
	}
	for _, f := range lo.Uniq(declared) {
		if !m.has(f) {
			return fmt.Errorf("admin: %s no tiene el campo %s", m.Name, f)
		}
	}
	for _, f := range m.ListEditable {
		if m.isReadonly(f) {
			return fmt.Errorf("admin: %s.%s es editable en lista y de sólo lectura", m.Name, f)
		}
	}
	for _, f := range m.SearchFields {
		rel, _, ok := strings.Cut(f, "__")
		if !ok {
			if !m.has(f) {
				return fmt.Errorf("admin: %s no tiene el campo de búsqueda %s", m.Name, f)
			}
			continue
		}
		if _, known := m.Relations[rel]; !known {
			return fmt.Errorf("admin: %s no declara la relación %s", m.Name, rel)
		}
	}
	return nil
}

// columns columnas visibles (esquema menos Exclude).
func (m *ModelAdmin) columns() []string {
	return lo.Filter(m.schema.DBNames, func(c string, _ int) bool { return !lo.Contains(m.Exclude, c) })
}

func (m *ModelAdmin) has(col string) bool {
	return lo.Contains(m.columns(), col)
}

func (m *ModelAdmin) field(col string) *schema.Field {
	return m.schema.FieldsByDBName[col]
}

func (m *ModelAdmin) pk() string {
	if m.schema.PrioritizedPrimaryField != nil {
		return m.schema.PrioritizedPrimaryField.DBName
	}
	return "id"
}

func (m *ModelAdmin) display() []string {
	if len(m.ListDisplay) == 0 {
		return m.columns()
	}
	if lo.Contains(m.ListDisplay, m.pk()) {
		return m.ListDisplay
	}
	return append([]string{m.pk()}, m.ListDisplay...)
}

func (m *ModelAdmin) isReadonly(col string) bool {
	return m.ReadonlyAll || col == m.pk() || lo.Contains(m.Readonly, col)
}

func (m *ModelAdmin) readonlyFields() []string {
	return lo.Filter(m.columns(), func(c string, _ int) bool { return m.isReadonly(c) })
}

func (m *ModelAdmin) visibleTo(role string) bool {
	roles := m.Roles
	if len(roles) == 0 {
		roles = []string{entity.RoleAdmin, entity.RoleManager}
	}
	return lo.Contains(roles, role)
}

// permsFor permisos efectivos para el perfil.
func (m *ModelAdmin) permsFor(role string) Perms {
	if !m.visibleTo(role) {
		return Perms{}
	}
	return m.Perms
}

func (m *ModelAdmin) fieldsets() []Fieldset {
	if len(m.Fieldsets) > 0 {
		return m.Fieldsets
	}
	return []Fieldset{{Fields: m.columns()}}
}
