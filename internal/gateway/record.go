package gateway

import (
	"strconv"
	"strings"
	"time"
)

// Record is a flat field map as stored by the hosted API. Values arrive as
// decoded JSON: string, float64, bool, or a map for expanded relations.
type Record map[string]any

// ID returns the record identifier, 0 when absent.
func (r Record) ID() int {
	id, _ := toInt(r["Id"])
	return id
}

// SetID stamps the record identifier.
func (r Record) SetID(id int) { r["Id"] = id }

// String returns the named field as a string, "" when absent or non-string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Float returns the named field coerced to a float, 0 when absent or
// non-numeric. Numeric strings are parsed, matching the form-input behavior
// of the record API.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int returns the named field coerced to an int, 0 when absent.
func (r Record) Int(field string) int {
	n, _ := toInt(r[field])
	return n
}

// Bool returns the named field as a bool.
func (r Record) Bool(field string) bool {
	b, _ := r[field].(bool)
	return b
}

// Time parses the named field as RFC3339 or a bare date, zero time otherwise.
func (r Record) Time(field string) time.Time {
	s, ok := r[field].(string)
	if !ok || s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

// Tags splits the comma-joined tag field into its ordered parts.
func (r Record) Tags(field string) []string {
	s := r.String(field)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// Relation is a relational field value. The API returns either a raw foreign
// id or an expanded {Id, Name} object; Relation is the normalized form of
// both shapes.
type Relation struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// Zero reports whether the relation references nothing.
func (rel Relation) Zero() bool { return rel.ID == 0 }

// Relation normalizes the named relational field. The second return is false
// when the field is absent or null.
func (r Record) Relation(field string) (Relation, bool) {
	switch v := r[field].(type) {
	case nil:
		return Relation{}, false
	case float64:
		return Relation{ID: int(v)}, true
	case int:
		return Relation{ID: v}, true
	case string:
		id, ok := toInt(v)
		if !ok {
			return Relation{}, false
		}
		return Relation{ID: id}, true
	case map[string]any:
		id, _ := toInt(v["Id"])
		name, _ := v["Name"].(string)
		if id == 0 && name == "" {
			return Relation{}, false
		}
		return Relation{ID: id, Name: name}, true
	case Relation:
		return v, true
	default:
		return Relation{}, false
	}
}

// RelationID is the id-only accessor for relational fields; 0 means unset.
func (r Record) RelationID(field string) int {
	rel, ok := r.Relation(field)
	if !ok {
		return 0
	}
	return rel.ID
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
