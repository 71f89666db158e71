package llm

// SchemaType is the type of a schema node
type SchemaType string

// Schema node types understood by every provider
const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral description of a structured response.
// Clients translate it to their SDK's schema type; JSONSchema renders it for
// local validation of whatever the provider returns.
type Schema struct {
	Type             SchemaType
	Description      string
	Properties       map[string]*Schema
	PropertyOrdering []string
	Required         []string
	Enum             []string
	Items            *Schema
	Minimum          *float64
	Maximum          *float64
}

// Bound returns a pointer to v, for Minimum/Maximum
func Bound(v float64) *float64 {
	return &v
}

// JSONSchema renders the schema as a draft-07 JSON Schema document.
// Objects are closed (additionalProperties: false).
func (s *Schema) JSONSchema() map[string]any {
	doc := s.jsonSchemaNode()
	doc["$schema"] = "http://json-schema.org/draft-07/schema#"
	return doc
}

func (s *Schema) jsonSchemaNode() map[string]any {
	node := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		node["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		enum := make([]any, len(s.Enum))
		for i, v := range s.Enum {
			enum[i] = v
		}
		node["enum"] = enum
	}
	if s.Minimum != nil {
		node["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		node["maximum"] = *s.Maximum
	}
	if s.Items != nil {
		node["items"] = s.Items.jsonSchemaNode()
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.jsonSchemaNode()
		}
		node["properties"] = props
		node["additionalProperties"] = false
		if len(s.Required) > 0 {
			required := make([]any, len(s.Required))
			for i, r := range s.Required {
				required[i] = r
			}
			node["required"] = required
		}
	}
	return node
}
