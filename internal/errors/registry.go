package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Argument Codec Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategorySchema,
		Message:  "Invalid argument schema",
		Detail:   "The schema declares a source/kind combination the codec cannot handle, a duplicate field, or a field that does not exist on the argument type.",
	},
	"E101": {
		Category: CategoryDecode,
		Message:  "Argument failed validation",
		Detail:   "The validator attached to the field rejected the decoded value. Validators are also called when the value is absent, so they decide defaults and required fields.",
	},
	"E102": {
		Category: CategoryDecode,
		Message:  "Malformed boolean argument",
		Detail:   "Boolean arguments are parsed as JSON literals. Only true and false are accepted by the default validators.",
	},
	"E103": {
		Category: CategoryDecode,
		Message:  "Malformed structured argument",
		Detail:   "The value is neither valid JSON nor valid percent-encoded JSON.",
	},
	"E104": {
		Category: CategoryDecode,
		Message:  "Argument type mismatch",
		Detail:   "The validator returned a value that cannot be assigned to the field of the argument type.",
	},
	"E105": {
		Category: CategoryDecode,
		Message:  "Malformed escape in hash",
		Detail:   "The URL fragment contains an invalid percent-escape, so hash arguments cannot be read.",
	},
	"E110": {
		Category: CategoryEncode,
		Message:  "Missing path argument",
		Detail:   "A path-sourced argument was undefined, so the route path cannot be built.",
	},
	"E111": {
		Category: CategoryEncode,
		Message:  "Unencodable argument",
		Detail:   "The value does not match the declared kind of the argument.",
	},

	// ============================================
	// Route Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryRoute,
		Message:  "Invalid route pattern",
		Detail:   "Route patterns must start with / and use :name for parameters and *name for a trailing catch-all.",
	},
	"E121": {
		Category: CategoryRoute,
		Message:  "Route not found",
		Detail:   "No registered route matches the path or name.",
	},
	"E122": {
		Category: CategoryRoute,
		Message:  "Component failed to load",
		Detail:   "The loader of a lazy route returned an error.",
	},
	"E123": {
		Category: CategoryRoute,
		Message:  "Invalid navigation path",
		Detail:   "Navigation targets must be relative paths starting with a single /.",
	},

	// ============================================
	// Protocol Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
		Detail:   "The websocket message is not a valid navigation frame.",
	},
	"E141": {
		Category: CategoryProtocol,
		Message:  "Session closed",
		Detail:   "The live navigation session is no longer connected.",
	},

	// ============================================
	// Configuration Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "typedroute.yaml contains an invalid value.",
	},
	"E161": {
		Category: CategoryConfig,
		Message:  "Invalid route manifest",
		Detail:   "The route manifest could not be parsed or declares an unknown source, kind or format.",
	},

	// ============================================
	// CLI Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryCLI,
		Message:  "Invalid command input",
		Detail:   "A flag or argument could not be parsed.",
	},
	"E181": {
		Category: CategoryCLI,
		Message:  "Unknown template",
		Detail:   "No project template has that name.",
	},
	"E182": {
		Category: CategoryCLI,
		Message:  "File already exists",
		Detail:   "init does not overwrite existing files.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
