package pipeline

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Kind is the JSON type a field must have.
type Kind string

// Supported field kinds.
const (
	KindString Kind = "string"
	KindInt    Kind = "int"
)

// Field declares one required payload field.
type Field struct {
	Name string
	Kind Kind
}

// String is shorthand for a required string field.
func String(name string) Field { return Field{Name: name, Kind: KindString} }

// Int is shorthand for a required integer field.
func Int(name string) Field { return Field{Name: name, Kind: KindInt} }

// Shape codes.
const (
	CodeMissingJSON = 401
	CodeBadField    = 402
)

// Shape requires a JSON object body with every field present, non-null and
// of its declared kind. Fields are checked in order; the first failure wins.
func Shape(fields ...Field) Guard {
	return func(req *Request) *Response {
		if req.Payload == nil {
			return Fail(http.StatusBadRequest, CodeMissingJSON, "Where is JSON?")
		}

		for _, f := range fields {
			value, ok := req.Payload[f.Name]
			if !ok || value == nil {
				return Fail(http.StatusBadRequest, CodeBadField, fmt.Sprintf("Where is %s?", f.Name))
			}
			if actual := typeName(value); actual != string(f.Kind) {
				return Fail(http.StatusBadRequest, CodeBadField,
					fmt.Sprintf("Field %s has type %s but expected %s.", f.Name, actual, f.Kind))
			}
		}
		return nil
	}
}

// typeName names the JSON type of a decoded value. Numbers are "int" only
// when they are integer literals that fit in int64.
func typeName(value any) string {
	switch v := value.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return "int"
		}
		return "float"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// StringField returns a string field. Call only after Shape has checked it.
func (r *Request) StringField(name string) string {
	s, _ := r.Payload[name].(string)
	return s
}

// IntField returns an integer field. Call only after Shape has checked it.
func (r *Request) IntField(name string) int64 {
	n, _ := r.Payload[name].(json.Number)
	i, _ := n.Int64()
	return i
}
