package args

// Values is the argument object of schemas built at runtime, such as the
// routes of a manifest.
type Values map[string]any

// String returns the string stored under key, or "".
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Float returns the float64 stored under key, or 0.
func (v Values) Float(key string) float64 {
	f, _ := v[key].(float64)
	return f
}

// Bool returns the bool stored under key, or false.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}
