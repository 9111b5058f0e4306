package models

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
)

// Row is a raw record as exchanged with the store: column name to loosely
// typed value (string, int64, float64, bool, nested Row/[]any or nil).
type Row map[string]any

// Record converts between a typed entity and its raw Row.
type Record interface {
	FromRow(raw Row) error
	ToRow() Row
}

type InvalidEnumValueError struct {
	Enum  string
	Value string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Enum, e.Value)
}

type InvalidDateFormatError struct {
	Kind  string
	Value string
	Err   error
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("invalid %s format %q", e.Kind, e.Value)
}

func (e *InvalidDateFormatError) Unwrap() error { return e.Err }

type UnexpectedTypeError struct {
	Want string
	Got  any
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("expected %s, got %T", e.Want, e.Got)
}

// FieldError ties a conversion failure to the column it came from.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// binder reads typed values out of a Row and keeps the first failure.
type binder struct {
	row Row
	err error
}

func bind(raw Row) *binder {
	return &binder{row: raw}
}

func (b *binder) fail(field string, err error) {
	if b.err == nil {
		b.err = &FieldError{Field: field, Err: err}
	}
}

func (b *binder) value(field string) (any, bool) {
	v, ok := b.row[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (b *binder) optStr(field string) *string {
	v, ok := b.value(field)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		b.fail(field, &UnexpectedTypeError{Want: "string", Got: v})
		return nil
	}
	return &s
}

func (b *binder) str(field string) string {
	if s := b.optStr(field); s != nil {
		return *s
	}
	return ""
}

func (b *binder) optInt(field string) *int64 {
	v, ok := b.value(field)
	if !ok {
		return nil
	}

	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) {
			b.fail(field, &UnexpectedTypeError{Want: "integer", Got: v})
			return nil
		}
		n = int64(x)
	case json.Number:
		parsed, err := x.Int64()
		if err != nil {
			b.fail(field, err)
			return nil
		}
		n = parsed
	default:
		b.fail(field, &UnexpectedTypeError{Want: "integer", Got: v})
		return nil
	}
	return &n
}

func (b *binder) integer(field string) int64 {
	if n := b.optInt(field); n != nil {
		return *n
	}
	return 0
}

func (b *binder) optFloat(field string) *float64 {
	v, ok := b.value(field)
	if !ok {
		return nil
	}

	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			b.fail(field, err)
			return nil
		}
		f = parsed
	default:
		b.fail(field, &UnexpectedTypeError{Want: "number", Got: v})
		return nil
	}
	return &f
}

func (b *binder) boolean(field string) bool {
	v, ok := b.value(field)
	if !ok {
		return false
	}
	flag, ok := v.(bool)
	if !ok {
		b.fail(field, &UnexpectedTypeError{Want: "boolean", Got: v})
		return false
	}
	return flag
}

// optText decodes enum and date/time columns through their text form.
func optText[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](b *binder, field string) *T {
	v, ok := b.value(field)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		b.fail(field, &UnexpectedTypeError{Want: "string", Got: v})
		return nil
	}

	var out T
	if err := PT(&out).UnmarshalText([]byte(s)); err != nil {
		b.fail(field, err)
		return nil
	}
	return &out
}

func text[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](b *binder, field string) T {
	if p := optText[T, PT](b, field); p != nil {
		return *p
	}
	var zero T
	return zero
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func optInt(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}

// optStringer writes the text form of an optional enum or date value.
func optStringer[T fmt.Stringer](v *T) any {
	if v == nil {
		return nil
	}
	return (*v).String()
}

// DecodeRows maps every raw row into a typed record.
func DecodeRows[T any, PT interface {
	*T
	Record
}](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, raw := range rows {
		var item T
		if err := PT(&item).FromRow(raw); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// DecodeRow maps a single raw row; a nil row yields nil.
func DecodeRow[T any, PT interface {
	*T
	Record
}](raw Row) (*T, error) {
	if raw == nil {
		return nil, nil
	}
	var item T
	if err := PT(&item).FromRow(raw); err != nil {
		return nil, err
	}
	return &item, nil
}
