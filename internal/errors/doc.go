// Package errors provides structured, actionable error messages for typedroute.
//
// Every failure the argument codec, the route table and the CLI can report has
// a registered code (e.g. "E101") that maps to:
//   - A category (schema, decode, encode, route, protocol, config, cli)
//   - A short message
//   - A longer explanation of what usually causes it
//
// # Usage
//
//	err := errors.New("E101").
//	    WithField("id").
//	    WithSuggestion("Return a default from the validator when ok is false").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	//
//	// ERROR E101: Argument failed validation
//	//
//	//   field: id
//	//
//	//   The validator attached to the field rejected the decoded value.
//	//
//	//   Hint: Return a default from the validator when ok is false
package errors
