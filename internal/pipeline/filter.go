package pipeline

// Filter is one conditional equality constraint: a field path plus an
// optional value. A filter with an absent value contributes nothing to the
// pipeline; it is never encoded as "field equals null".
type Filter struct {
	key   string
	value any
	set   bool
}

// Eq builds an equality filter on key. A nil value marks the filter
// absent, so optional request parameters can be passed straight through.
func Eq[T any](key string, value *T) Filter {
	if value == nil {
		return Filter{key: key}
	}
	return Filter{key: key, value: *value, set: true}
}

// EqValue builds an equality filter whose value is always present.
func EqValue(key string, value any) Filter {
	return Filter{key: key, value: value, set: true}
}
