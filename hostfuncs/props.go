package hostfuncs

// Property helpers for reading optional configuration-style values off the
// decoded script object a native function received. Scripts pass loosely
// typed objects; JSON decoding maps numbers to float64 and everything else
// to its natural Go type.

// PropBool reads a boolean property by key, with a default. Numbers count
// as true when non-zero, matching script truthiness for flag-like options.
func PropBool(args map[string]any, key string, def bool) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	}
	return def
}

// PropInt reads an integer property by key, with a default.
func PropInt(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	}
	return def
}

// PropString reads a string-like property by key, with a default.
func PropString(args map[string]any, key string, def string) string {
	if s, ok := args[key].(string); ok {
		return s
	}
	return def
}
