// Package schema describes the JSON documents produced by the storage entities.
//
// Descriptions are derived from the entity types themselves (json and format struct tags,
// pointer fields as nullable, Values() as enum labels), so there is a single definition
// of every document shape. Embedded documents are linked with a ref struct tag naming
// another component.
package schema

import (
	"encoding/json"
	"github.com/google/uuid"
	"llm-chat/internal/storage"
	"reflect"
	"strings"
	"time"
)

// Property describes a single document field
type Property struct {
	Type     string    `json:"type"`
	Format   string    `json:"format,omitempty"`
	Nullable bool      `json:"nullable,omitempty"`
	Enum     []string  `json:"enum,omitempty"`
	Ref      string    `json:"$ref,omitempty"`
	Items    *Property `json:"items,omitempty"`
}

// Schema describes a JSON object document
type Schema struct {
	Title      string              `json:"title"`
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

type enumer interface {
	Values() []string
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
	rawType  = reflect.TypeOf(json.RawMessage{})
)

// Describe builds description of struct v (or pointer to struct).
// It panics if v is not a struct, descriptions are built from static types only.
func Describe(title string, v interface{}) Schema {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic("schema: " + t.String() + " is not a struct")
	}

	s := Schema{
		Title:      title,
		Type:       "object",
		Properties: make(map[string]Property),
		Required:   []string{},
	}
	s.addFields(t)

	return s
}

func (s *Schema) addFields(t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			s.addFields(f.Type)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		p := property(f.Type)
		if format := f.Tag.Get("format"); format != "" {
			p.Format = format
		}
		if ref := f.Tag.Get("ref"); ref != "" {
			if p.Items != nil {
				p.Items.Ref = "#/" + ref
			} else {
				p.Ref = "#/" + ref
			}
		}

		s.Properties[name] = p
		if !p.Nullable {
			s.Required = append(s.Required, name)
		}
	}
}

func property(t reflect.Type) Property {
	if t.Kind() == reflect.Ptr {
		p := property(t.Elem())
		p.Nullable = true
		return p
	}

	switch t {
	case timeType:
		return Property{Type: "string", Format: "date-time"}
	case uuidType:
		return Property{Type: "string", Format: "uuid"}
	case rawType:
		return Property{Type: "object"}
	}

	if e, ok := reflect.Zero(t).Interface().(enumer); ok {
		return Property{Type: "string", Enum: e.Values()}
	}

	switch t.Kind() {
	case reflect.String:
		return Property{Type: "string"}
	case reflect.Bool:
		return Property{Type: "boolean"}
	case reflect.Int64, reflect.Uint64:
		return Property{Type: "integer", Format: "int64"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return Property{Type: "integer", Format: "int32"}
	case reflect.Float32, reflect.Float64:
		return Property{Type: "number"}
	case reflect.Slice, reflect.Array:
		items := property(t.Elem())
		return Property{Type: "array", Items: &items}
	default:
		return Property{Type: "object"}
	}
}

// Components returns descriptions of every document exposed over HTTP, keyed by title
func Components() map[string]Schema {
	return map[string]Schema{
		"User":         Describe("User", storage.User{}),
		"Chat":         Describe("Chat", storage.Chat{}),
		"ChatsUsers":   Describe("ChatsUsers", storage.ChatsUsers{}),
		"ChatMessage":  Describe("ChatMessage", storage.ChatMessage{}),
		"ChatDocument": Describe("ChatDocument", storage.ChatDocument{}),
	}
}
