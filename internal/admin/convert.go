package admin

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/pkg/validate"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/schema"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

func baseType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// decodeInput convierte un valor JSON al tipo Go del campo y lo valida con su tag `validate`.
func decodeInput(f *schema.Field, raw interface{}) (interface{}, error) {
	// texto en blanco en un campo opcional se guarda como NULL
	if str, ok := raw.(string); ok && f.FieldType.Kind() == reflect.Ptr && strings.TrimSpace(str) == "" {
		raw = nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	ptr := reflect.New(f.FieldType)
	if err := json.Unmarshal(b, ptr.Interface()); err != nil {
		return nil, &validate.Error{Fields: map[string]string{f.DBName: "tipo inválido"}}
	}
	v := ptr.Elem().Interface()
	if err := validate.Var(f.DBName, v, f.Tag.Get("validate")); err != nil {
		return nil, err
	}
	return v, nil
}

// zeroValue valor por defecto de un campo omitido en un alta.
func zeroValue(f *schema.Field) interface{} {
	return reflect.Zero(f.FieldType).Interface()
}

// parseFilter interpreta un valor de query string según el tipo del campo.
func parseFilter(f *schema.Field, s string) (interface{}, error) {
	t := baseType(f.FieldType)
	bad := fmt.Errorf("%w: filtro %s=%q", domain.ErrInvalidInput, f.DBName, s)
	switch {
	case t == decimalType:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, bad
		}
		return d, nil
	case t == timeType:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return nil, bad
	case t.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, bad
		}
		return b, nil
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, bad
		}
		return n, nil
	}
	return s, nil
}

// normalize lleva los valores escaneados a su tipo de dominio (p. ej. bool y decimal en SQLite).
func normalize(m *ModelAdmin, row map[string]interface{}) map[string]interface{} {
	for col, v := range row {
		v = unwrap(v)
		row[col] = v
		if v == nil || m == nil {
			continue
		}
		f := m.field(col)
		if f == nil {
			continue
		}
		switch t := baseType(f.FieldType); {
		case t == decimalType:
			if d, ok := toDecimal(v); ok {
				row[col] = d
			}
		case t.Kind() == reflect.Bool:
			switch n := v.(type) {
			case int64:
				row[col] = n != 0
			case float64:
				row[col] = n != 0
			case string:
				if b, err := strconv.ParseBool(n); err == nil {
					row[col] = b
				}
			}
		}
	}
	return row
}

// unwrap quita las indirecciones del driver: *interface{} en columnas de tipo
// desconocido para SQLite y []byte en texto.
func unwrap(v interface{}) interface{} {
	for {
		switch x := v.(type) {
		case *interface{}:
			if x == nil {
				return nil
			}
			v = *x
		case []byte:
			return string(x)
		default:
			return v
		}
	}
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}
