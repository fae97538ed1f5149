package args

// ValidateFunc validates and normalizes one argument. ok is false when the
// raw value was absent; v is then nil. The returned value is stored in the
// argument object.
type ValidateFunc func(v any, ok bool) (any, error)

// Field describes one named argument.
type Field struct {
	Name     string
	Source   Source
	Kind     Kind
	Validate ValidateFunc
}

// Path declares an argument read from the matched path parameter name.
func Path(name string, kind Kind, validate ValidateFunc) Field {
	return Field{Name: name, Source: SourcePath, Kind: kind, Validate: validate}
}

// Query declares an argument read from the query parameter name.
func Query(name string, kind Kind, validate ValidateFunc) Field {
	return Field{Name: name, Source: SourceQuery, Kind: kind, Validate: validate}
}

// Hash declares an argument read from the hash fragment. All hash arguments
// of a schema share the one fragment.
func Hash(name string, kind Kind, validate ValidateFunc) Field {
	return Field{Name: name, Source: SourceHash, Kind: kind, Validate: validate}
}

// State declares an argument carried in the navigation state, outside the URL.
func State(name string, kind Kind, validate ValidateFunc) Field {
	return Field{Name: name, Source: SourceState, Kind: kind, Validate: validate}
}
