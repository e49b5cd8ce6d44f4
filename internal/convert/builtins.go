package convert

// builtinClasses are global constructors that resolve to instanceOf checks
// without a binding in the file.
var builtinClasses = map[string]bool{
	"AggregateError":    true,
	"ArrayBuffer":       true,
	"BigInt64Array":     true,
	"BigUint64Array":    true,
	"Blob":              true,
	"Buffer":            true,
	"DataView":          true,
	"Date":              true,
	"Error":             true,
	"EvalError":         true,
	"Float32Array":      true,
	"Float64Array":      true,
	"Int8Array":         true,
	"Int16Array":        true,
	"Int32Array":        true,
	"Map":               true,
	"Promise":           true,
	"RangeError":        true,
	"ReferenceError":    true,
	"RegExp":            true,
	"Set":               true,
	"SharedArrayBuffer": true,
	"SyntaxError":       true,
	"TypeError":         true,
	"URIError":          true,
	"URL":               true,
	"Uint8Array":        true,
	"Uint8ClampedArray": true,
	"Uint16Array":       true,
	"Uint32Array":       true,
	"WeakMap":           true,
	"WeakSet":           true,
}

func isBuiltinClass(name string) bool {
	return builtinClasses[name]
}
