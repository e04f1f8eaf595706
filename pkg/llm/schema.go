package llm

// SchemaType is the JSON type of a schema node.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeBoolean SchemaType = "boolean"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
)

// Schema is a provider-agnostic descriptor of the structure a model must
// answer with. Providers translate it to their own dialect.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// Order keeps property order stable in the translated schema.
	Order    []string
	Required []string
	Items    *Schema
	Nullable bool
	Enum     []string
}

// Object builds an object schema. order lists the property names in the
// order they should be generated.
func Object(properties map[string]*Schema, order []string, required ...string) *Schema {
	return &Schema{
		Type:       TypeObject,
		Properties: properties,
		Order:      order,
		Required:   required,
	}
}

func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

func String() *Schema {
	return &Schema{Type: TypeString}
}

func Boolean() *Schema {
	return &Schema{Type: TypeBoolean}
}

func StringEnum(values ...string) *Schema {
	return &Schema{Type: TypeString, Enum: values}
}

// AsNullable returns a copy of s that also accepts null.
func (s *Schema) AsNullable() *Schema {
	cp := *s
	cp.Nullable = true
	return &cp
}

// PropertyNames returns the property names in generation order. Names missing
// from Order are appended in map order.
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.Order {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	for name := range s.Properties {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// JSONSchema renders s as a standard JSON Schema document. Nullable nodes are
// expressed as a [type, "null"] union.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{}
	if s.Nullable {
		out["type"] = []string{string(s.Type), "null"}
	} else {
		out["type"] = string(s.Type)
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		enum := make([]any, 0, len(s.Enum)+1)
		for _, v := range s.Enum {
			enum = append(enum, v)
		}
		if s.Nullable {
			enum = append(enum, nil)
		}
		out["enum"] = enum
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for _, name := range s.PropertyNames() {
			props[name] = s.Properties[name].JSONSchema()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
