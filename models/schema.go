package models

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Kind enumerates the external representations a schema field can take. Each
// field's kind is assigned when the schema is declared, so the coercion switch
// below stays a fixed dispatch with no runtime type introspection.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	KindBool
	KindDateTime
	// KindPassword routes the raw value through the record's one-way
	// hashing setter; the raw value is never stored.
	KindPassword
)

// Field binds one column of a record to its external name, kind and accessors.
// Setters accept nil (clear the column) or the kind's native Go type.
type Field struct {
	Name     string
	Kind     Kind
	Required bool // backed by a not-nullable column
	Ignore   bool // excluded from ExportData
	Get      func() any
	Set      func(v any)
}

// Schema is the ordered column set of a record.
type Schema []Field

// Record is anything the codec can import into and export from.
type Record interface {
	Schema() Schema
	// SelfPath is the canonical URI path of the record.
	SelfPath() string
	// Relationships names the owned collections a listing link exists for.
	Relationships() []string
}

// FormatError reports a payload value that cannot be coerced into its
// column's kind.
type FormatError struct {
	Field string
	Value any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s is not in a valid format", e.Field)
}

// isoFormat matches the date-time rendering used on the wire. parseDate
// accepts it back so an exported record re-imports without loss.
const isoFormat = "2006-01-02T15:04:05"

var dateFormats = []string{"2006-01-02", isoFormat, time.RFC3339}

func parseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		// "false" and "0" read back as false so exported booleans
		// survive a round trip
		l := strings.ToLower(t)
		return t != "" && l != "false" && l != "0"
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}

// ImportData applies a decoded JSON payload onto the record. On a creating
// request every required field missing from the payload is cleared first, so
// a stale in-memory value cannot quietly satisfy a storage-level constraint.
// Payload keys without a matching column are ignored.
func ImportData(rec Record, method string, data map[string]any) error {
	schema := rec.Schema()

	if method == http.MethodPost {
		for i := range schema {
			f := &schema[i]
			if !f.Required {
				continue
			}
			if _, ok := data[f.Name]; !ok {
				f.Set(nil)
			}
		}
	}

	for i := range schema {
		f := &schema[i]
		v, ok := data[f.Name]
		if !ok {
			continue
		}
		if v == nil {
			f.Set(nil)
			continue
		}
		switch f.Kind {
		case KindPassword:
			f.Set(v)
		case KindDateTime:
			t, ok := parseDate(v)
			if !ok {
				return &FormatError{Field: f.Name, Value: v}
			}
			f.Set(t)
		case KindBool:
			f.Set(truthy(v))
		case KindInt:
			n, ok := toInt(v)
			if !ok {
				return &FormatError{Field: f.Name, Value: v}
			}
			f.Set(n)
		case KindDecimal:
			x, ok := toFloat(v)
			if !ok {
				return &FormatError{Field: f.Name, Value: v}
			}
			f.Set(x)
		default:
			s := fmt.Sprint(v)
			if s == "" {
				f.Set(nil)
			} else {
				f.Set(s)
			}
		}
	}
	return nil
}

// LinkBuilder renders URLs for records and their relationship listings.
// Handlers construct one from the incoming request so links carry the
// caller's scheme and host; a zero builder yields path-only links.
type LinkBuilder struct {
	Scheme string
	Host   string
}

func (b LinkBuilder) URL(path string) string {
	if b.Host == "" {
		return path
	}
	scheme := b.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + b.Host + path
}

// Self is the canonical URL of the record.
func (b LinkBuilder) Self(rec Record) string {
	return b.URL(rec.SelfPath())
}

// List is the URL of one of the record's owned collections.
func (b LinkBuilder) List(rec Record, rel string) string {
	return b.URL(rec.SelfPath() + "/" + rel)
}

// ExportData renders the record as its external mapping: a self link, every
// non-ignored column (dates as ISO-8601, booleans as "true"/"false" strings,
// numbers native, nulls preserved) and a listing link per relationship.
// Relationship links are best effort; a missing link is not an error.
func ExportData(rec Record, links LinkBuilder) map[string]any {
	data := map[string]any{"self_url": links.Self(rec)}

	for _, f := range rec.Schema() {
		if f.Ignore {
			continue
		}
		v := f.Get()
		if v == nil {
			data[f.Name] = nil
			continue
		}
		switch f.Kind {
		case KindDateTime:
			data[f.Name] = v.(time.Time).Format(isoFormat)
		case KindBool:
			data[f.Name] = strconv.FormatBool(v.(bool))
		case KindInt, KindDecimal:
			data[f.Name] = v
		default:
			data[f.Name] = fmt.Sprint(v)
		}
	}

	for _, rel := range rec.Relationships() {
		data[rel+"_url"] = links.List(rec, rel)
	}
	return data
}
