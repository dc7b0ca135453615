package model

// InternalType is the authoring-time element vocabulary.
type InternalType string

// Internal element types.
const (
	InternalScreen           InternalType = "SCREEN"
	InternalCommand          InternalType = "COMMAND"
	InternalDomainEvent      InternalType = "DOMAIN_EVENT"
	InternalIntegrationEvent InternalType = "INTEGRATION_EVENT"
	InternalReadModel        InternalType = "READ_MODEL"
	InternalAutomation       InternalType = "AUTOMATION"
)

// SchemaType is the public element vocabulary written to output documents.
type SchemaType string

// Schema element types.
const (
	SchemaScreen     SchemaType = "SCREEN"
	SchemaCommand    SchemaType = "COMMAND"
	SchemaEvent      SchemaType = "EVENT"
	SchemaReadModel  SchemaType = "READMODEL"
	SchemaAutomation SchemaType = "AUTOMATION"
)

// Context qualifies a schema EVENT. The zero value means a domain event.
type Context string

// ContextExternal marks an EVENT that was an INTEGRATION_EVENT before normalization.
const ContextExternal Context = "EXTERNAL"

// Direction tags a dependency edge relative to the element that carries it.
type Direction string

// Edge directions.
const (
	Inbound  Direction = "INBOUND"
	Outbound Direction = "OUTBOUND"
)

var internalTypes = map[string]InternalType{
	"SCREEN":            InternalScreen,
	"COMMAND":           InternalCommand,
	"DOMAIN_EVENT":      InternalDomainEvent,
	"INTEGRATION_EVENT": InternalIntegrationEvent,
	"READ_MODEL":        InternalReadModel,
	"AUTOMATION":        InternalAutomation,
}

var schemaTypes = map[string]SchemaType{
	"SCREEN":     SchemaScreen,
	"COMMAND":    SchemaCommand,
	"EVENT":      SchemaEvent,
	"READMODEL":  SchemaReadModel,
	"AUTOMATION": SchemaAutomation,
}

// Normalize translates an internal type into its schema type. The returned
// context is ContextExternal for INTEGRATION_EVENT and empty otherwise.
// Normalize is total over the closed InternalType set.
func Normalize(t InternalType) (SchemaType, Context) {
	switch t {
	case InternalDomainEvent:
		return SchemaEvent, ""
	case InternalIntegrationEvent:
		return SchemaEvent, ContextExternal
	case InternalReadModel:
		return SchemaReadModel, ""
	case InternalScreen:
		return SchemaScreen, ""
	case InternalCommand:
		return SchemaCommand, ""
	case InternalAutomation:
		return SchemaAutomation, ""
	}
	return SchemaType(t), ""
}

// Internalize lifts a schema type back into the internal vocabulary.
// EVENT becomes INTEGRATION_EVENT when ctx is ContextExternal and
// DOMAIN_EVENT otherwise.
func Internalize(t SchemaType, ctx Context) InternalType {
	switch t {
	case SchemaEvent:
		if ctx == ContextExternal {
			return InternalIntegrationEvent
		}
		return InternalDomainEvent
	case SchemaReadModel:
		return InternalReadModel
	}
	return InternalType(t)
}

// ParseInternal reports whether tag names an internal-only or shared type.
func ParseInternal(tag string) (InternalType, bool) {
	t, ok := internalTypes[tag]
	return t, ok
}

// ParseSchema reports whether tag names a schema type.
func ParseSchema(tag string) (SchemaType, bool) {
	t, ok := schemaTypes[tag]
	return t, ok
}

// IsInternalOnly reports whether tag exists only in the internal vocabulary,
// i.e. whether normalization would rewrite it.
func IsInternalOnly(tag string) bool {
	_, internal := internalTypes[tag]
	_, schema := schemaTypes[tag]
	return internal && !schema
}

// SchemaOf returns the schema type for any written tag. Internal tags are
// normalized, schema tags pass through, unknown tags are returned verbatim.
func SchemaOf(tag string) SchemaType {
	if t, ok := internalTypes[tag]; ok {
		s, _ := Normalize(t)
		return s
	}
	return SchemaType(tag)
}

// InternalOf returns the internal type for any written tag, using ctx to
// disambiguate EVENT. Unknown tags are returned verbatim.
func InternalOf(tag string, ctx Context) InternalType {
	if t, ok := internalTypes[tag]; ok {
		return t
	}
	if s, ok := schemaTypes[tag]; ok {
		return Internalize(s, ctx)
	}
	return InternalType(tag)
}
