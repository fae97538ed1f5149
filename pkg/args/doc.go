// Package args is the typed argument codec of a route.
//
// A route declares where each of its arguments lives and how it is typed:
//
//	type UserArgs struct {
//	    ID   string  `arg:"id"`
//	    Tab  string  `arg:"tab"`
//	    Page float64 `arg:"page"`
//	}
//
//	var userSchema = args.MustSchema[UserArgs](
//	    args.Path("id", args.String, args.Required[string]()),
//	    args.Query("tab", args.String, args.Default("overview")),
//	    args.Query("page", args.Number, args.Default(1.0)),
//	)
//
// Decode reads a Snapshot of the current location (matched path params,
// query string, hash fragment and navigation state) into a UserArgs. Encode
// is its inverse and produces a Target: the href to navigate to plus the
// navigation state that travels beside it.
//
// Every field has a validator. It is called for every decode, also when the
// raw value is absent (ok == false), so defaults and required fields live in
// one place.
//
// # Sources and kinds
//
// Not every kind makes sense in every source:
//
//	         string  number  boolean  structured  passthrough
//	path       x       x       x                      x
//	query      x       x       x          x           x
//	hash       x       x       x          x           x
//	state      x                                      x
//
// NewSchema rejects the other combinations.
//
// # Errors
//
// Decode and Encode return errors, they never panic. Failures of a single
// field are reported as *FieldError and match the sentinels ErrValidation,
// ErrMalformed, ErrMissingPath, ErrUnencodable and ErrTypeMismatch with
// errors.Is.
package args
