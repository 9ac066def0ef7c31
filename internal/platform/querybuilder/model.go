package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// modelPlan maps a struct type onto its db-tagged fields, in declaration order.
type modelPlan struct {
	columns []string
	fields  []int
}

var plans sync.Map // reflect.Type -> *modelPlan

// Columns returns the db-tagged column names of a struct model.
func Columns(model any) ([]string, error) {
	_, plan, err := resolveModel(model)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), plan.columns...), nil
}

// MustColumns is Columns for package-level column lists.
func MustColumns(model any) []string {
	cols, err := Columns(model)
	if err != nil {
		panic(err)
	}
	return cols
}

// InsertModel renders a single-row insert of every db-tagged field.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value, plan, err := resolveModel(model)
	if err != nil {
		return "", nil, err
	}

	vals := make([]any, len(plan.fields))
	for i, idx := range plan.fields {
		vals[i] = value.Field(idx).Interface()
	}
	return InsertInto(table).
		Columns(plan.columns...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

func resolveModel(model any) (reflect.Value, *modelPlan, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	if cached, ok := plans.Load(value.Type()); ok {
		return value, cached.(*modelPlan), nil
	}

	plan, err := buildPlan(value.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	actual, _ := plans.LoadOrStore(value.Type(), plan)
	return value, actual.(*modelPlan), nil
}

func buildPlan(typ reflect.Type) (*modelPlan, error) {
	plan := &modelPlan{}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		plan.columns = append(plan.columns, col)
		plan.fields = append(plan.fields, i)
	}
	if len(plan.columns) == 0 {
		return nil, fmt.Errorf("model %s has no db columns", typ)
	}
	return plan, nil
}
