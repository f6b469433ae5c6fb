// Package validate turns untyped request payloads into narrowed records.
//
// A Schema is a field-set descriptor: the same Validate logic serves every
// payload shape (new post, update post, new topic), so the variants cannot
// drift apart. Validation is pure and never touches the store: the result is
// either a record holding exactly the declared fields, or a non-empty issue
// list with one entry per violated field.
package validate

import (
	"fmt"
	"math"
	"strings"
)

type Kind int

const (
	String Kind = iota
	Int
)

// Field describes one declared payload field. Min/Max bound string length;
// Exact, when non-zero, requires that exact length.
type Field struct {
	Name  string
	Kind  Kind
	Min   int
	Max   int
	Exact int
}

type Schema struct {
	fields []Field
}

// Issue is a single field-level violation.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the non-empty issue list returned for an invalid payload.
type Errors []Issue

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, issue := range e {
		parts[i] = issue.Field + ": " + issue.Message
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

// Record is a validated payload narrowed to the schema's declared fields.
type Record map[string]any

func (r Record) String(name string) string {
	s, _ := r[name].(string)
	return s
}

func (r Record) Int64(name string) int64 {
	n, _ := r[name].(int64)
	return n
}

// NewPost describes a post creation payload. The topic-aware variant requires
// topic_id; the bare variant omits the field entirely. The choice is made
// once per process from configuration, not per request.
func NewPost(topicAware bool) Schema {
	fields := []Field{
		{Name: "author", Kind: String, Min: 3, Max: 60},
		{Name: "author_code", Kind: String, Exact: 64},
		{Name: "title", Kind: String, Min: 3, Max: 60},
		{Name: "body", Kind: String, Min: 3, Max: 2000},
	}
	if topicAware {
		fields = append(fields, Field{Name: "topic_id", Kind: Int})
	}
	return Schema{fields: fields}
}

// UpdatePost describes a post update payload: same rules as NewPost minus
// topic_id, since the update path does not support topic reassignment.
func UpdatePost() Schema {
	return Schema{fields: []Field{
		{Name: "author", Kind: String, Min: 3, Max: 60},
		{Name: "author_code", Kind: String, Exact: 64},
		{Name: "title", Kind: String, Min: 3, Max: 60},
		{Name: "body", Kind: String, Min: 3, Max: 2000},
	}}
}

func NewTopic() Schema {
	return Schema{fields: []Field{
		{Name: "title", Kind: String, Min: 3, Max: 100},
	}}
}

// Validate checks payload against the schema. Unknown fields (including any
// honeypot field) are stripped, never rejected.
func (s Schema) Validate(payload map[string]any) (Record, Errors) {
	var errs Errors
	record := make(Record, len(s.fields))

	for _, f := range s.fields {
		raw, ok := payload[f.Name]
		if !ok || raw == nil {
			errs = append(errs, Issue{Field: f.Name, Message: "required"})
			continue
		}
		switch f.Kind {
		case String:
			str, ok := raw.(string)
			if !ok {
				errs = append(errs, Issue{Field: f.Name, Message: "expected string"})
				continue
			}
			if issue, ok := checkLength(f, str); !ok {
				errs = append(errs, Issue{Field: f.Name, Message: issue})
				continue
			}
			record[f.Name] = str
		case Int:
			n, ok := asInt64(raw)
			if !ok {
				errs = append(errs, Issue{Field: f.Name, Message: "expected integer"})
				continue
			}
			record[f.Name] = n
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return record, nil
}

func checkLength(f Field, s string) (string, bool) {
	n := len(s)
	if f.Exact > 0 {
		if n != f.Exact {
			return fmt.Sprintf("must be exactly %d characters", f.Exact), false
		}
		return "", true
	}
	if n < f.Min {
		return fmt.Sprintf("must be at least %d characters", f.Min), false
	}
	if f.Max > 0 && n > f.Max {
		return fmt.Sprintf("must be at most %d characters", f.Max), false
	}
	return "", true
}

// asInt64 accepts the integral forms a decoded JSON payload (or a test
// constructing payloads directly) can carry.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
