package dtobind

// NumberMode dictates how numbers are interpreted when a value is decoded
// into an untyped tree (interface members, unregistered structs).
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Fast mode (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number.
)

// Severity expresses the severity level for input diagnostics.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// SourceOpt bounds an input stream before it reaches a converter.
type SourceOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	FailFast   bool
}
