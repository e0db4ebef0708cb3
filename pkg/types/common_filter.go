package types

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm/clause"
)

type CommonFilterOperator string

const (
	CommonFilterOperatorEq        CommonFilterOperator = "eq"
	CommonFilterOperatorNeq       CommonFilterOperator = "neq"
	CommonFilterOperatorLt        CommonFilterOperator = "lt"
	CommonFilterOperatorLte       CommonFilterOperator = "lte"
	CommonFilterOperatorGt        CommonFilterOperator = "gt"
	CommonFilterOperatorGte       CommonFilterOperator = "gte"
	CommonFilterOperatorLike      CommonFilterOperator = "like"
	CommonFilterOperatorIn        CommonFilterOperator = "in"
	CommonFilterOperatorNotIn     CommonFilterOperator = "not_in"
	CommonFilterOperatorIsNull    CommonFilterOperator = "is_null"
	CommonFilterOperatorIsNotNull CommonFilterOperator = "is_not_null"
	CommonFilterOperatorDateRange CommonFilterOperator = "date_range"
	// inclusive on both ends, for non-date columns
	CommonFilterOperatorRange CommonFilterOperator = "range"
)

var ErrInvalidCommonFilter = errors.New("invalid filter")

// CommonFilter is one condition of the admin listing DSL. A filter with
// nested Filters matches when any nested filter matches; combined with its
// own Field condition through AND.
type CommonFilter struct {
	Field    string               `json:"field"`
	Operator CommonFilterOperator `json:"operator"`
	Values   []any                `json:"values"`
	Filters  []CommonFilter       `json:"filters"`
}

// Fields lists every column the filter references, nested ones included.
func (f *CommonFilter) Fields() []string {
	var out []string
	if f.Field != "" {
		out = append(out, f.Field)
	}
	for i := range f.Filters {
		out = append(out, f.Filters[i].Fields()...)
	}
	return out
}

// Validate checks operators and value counts so Build never drops a
// condition silently.
func (f *CommonFilter) Validate() error {
	if f.Field == "" && len(f.Filters) == 0 {
		return fmt.Errorf("%w: empty filter", ErrInvalidCommonFilter)
	}
	if f.Field != "" {
		want := 1
		switch f.Operator {
		case CommonFilterOperatorEq, CommonFilterOperatorNeq, CommonFilterOperatorLt,
			CommonFilterOperatorLte, CommonFilterOperatorGt, CommonFilterOperatorGte,
			CommonFilterOperatorLike, CommonFilterOperatorIn, CommonFilterOperatorNotIn:
		case CommonFilterOperatorIsNull, CommonFilterOperatorIsNotNull:
			want = 0
		case CommonFilterOperatorRange, CommonFilterOperatorDateRange:
			want = 2
		default:
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidCommonFilter, f.Operator)
		}
		if len(f.Values) < want {
			return fmt.Errorf("%w: %s needs %d values", ErrInvalidCommonFilter, f.Operator, want)
		}
		if f.Operator == CommonFilterOperatorDateRange {
			for _, v := range f.Values[:2] {
				if _, err := parseFilterTime(v); err != nil {
					return fmt.Errorf("%w: %v", ErrInvalidCommonFilter, err)
				}
			}
		}
	}
	for i := range f.Filters {
		if err := f.Filters[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Build constructs a GORM expression.
func (f *CommonFilter) Build(builder clause.Builder) {
	var exprs []clause.Expression
	if e := f.condition(); e != nil {
		exprs = append(exprs, e)
	}
	if len(f.Filters) > 0 {
		or := make([]clause.Expression, 0, len(f.Filters))
		for i := range f.Filters {
			or = append(or, &f.Filters[i])
		}
		exprs = append(exprs, clause.Or(or...))
	}
	if len(exprs) == 0 {
		builder.WriteString("1=1")
		return
	}
	clause.And(exprs...).Build(builder)
}

func (f *CommonFilter) condition() clause.Expression {
	if f.Field == "" {
		return nil
	}
	switch f.Operator {
	case CommonFilterOperatorIsNull:
		return clause.Expr{SQL: "? IS NULL", Vars: []any{clause.Column{Name: f.Field}}}
	case CommonFilterOperatorIsNotNull:
		return clause.Expr{SQL: "? IS NOT NULL", Vars: []any{clause.Column{Name: f.Field}}}
	}
	if len(f.Values) == 0 {
		return nil
	}
	value := f.Values[0]

	switch f.Operator {
	case CommonFilterOperatorEq:
		return clause.Eq{Column: f.Field, Value: value}
	case CommonFilterOperatorNeq:
		return clause.Neq{Column: f.Field, Value: value}
	case CommonFilterOperatorLike:
		return clause.Like{Column: f.Field, Value: value}
	case CommonFilterOperatorLt:
		return clause.Lt{Column: f.Field, Value: value}
	case CommonFilterOperatorLte:
		return clause.Lte{Column: f.Field, Value: value}
	case CommonFilterOperatorGt:
		return clause.Gt{Column: f.Field, Value: value}
	case CommonFilterOperatorGte:
		return clause.Gte{Column: f.Field, Value: value}
	case CommonFilterOperatorRange:
		if len(f.Values) < 2 {
			return nil
		}
		return clause.And(clause.Gte{Column: f.Field, Value: f.Values[0]}, clause.Lte{Column: f.Field, Value: f.Values[1]})
	case CommonFilterOperatorDateRange:
		// [from, to)
		if len(f.Values) < 2 {
			return nil
		}
		from, err1 := parseFilterTime(f.Values[0])
		to, err2 := parseFilterTime(f.Values[1])
		if err1 != nil || err2 != nil {
			return nil
		}
		return clause.And(clause.Gte{Column: f.Field, Value: from}, clause.Lt{Column: f.Field, Value: to})
	case CommonFilterOperatorIn:
		return clause.IN{Column: f.Field, Values: f.Values}
	case CommonFilterOperatorNotIn:
		return clause.Not(clause.IN{Column: f.Field, Values: f.Values})
	default:
		return nil
	}
}

var filterTimeLayouts = []string{time.RFC3339, "2006-01-02"}

func parseFilterTime(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("date value %v is not a string", v)
	}
	for _, layout := range filterTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("date value %q is neither RFC3339 nor YYYY-MM-DD", s)
}
