package args

import "fmt"

// Source is where a raw argument value is read from and written to.
type Source uint8

const (
	SourcePath Source = iota + 1
	SourceQuery
	SourceHash
	SourceState
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourceQuery:
		return "query"
	case SourceHash:
		return "hash"
	case SourceState:
		return "state"
	default:
		return fmt.Sprintf("Source(%d)", s)
	}
}

// ParseSource parses a source name as written in a route manifest.
func ParseSource(s string) (Source, error) {
	switch s {
	case "path":
		return SourcePath, nil
	case "query":
		return SourceQuery, nil
	case "hash":
		return SourceHash, nil
	case "state":
		return SourceState, nil
	}
	return 0, fmt.Errorf("%w: unknown source %q", ErrSchema, s)
}

// Kind is the declared type of an argument. It drives the conversion of the
// raw value before validation and its formatting on encode.
type Kind uint8

const (
	String Kind = iota + 1
	Number
	Boolean
	// Structured values are JSON documents.
	Structured
	// Passthrough values are handed to the validator as they are.
	Passthrough
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Structured:
		return "structured"
	case Passthrough:
		return "passthrough"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind parses a kind name as written in a route manifest.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "string":
		return String, nil
	case "number":
		return Number, nil
	case "boolean", "bool":
		return Boolean, nil
	case "structured", "json":
		return Structured, nil
	case "passthrough", "any":
		return Passthrough, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrSchema, s)
}
