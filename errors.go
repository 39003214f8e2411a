package dtobind

import (
	"errors"
	"fmt"
	"strings"

	eng "github.com/reoring/dtobind/internal/engine"
	"github.com/reoring/dtobind/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	// Input (read path)
	CodeInvalidType       = "invalid_type"
	CodeRequired          = "required"
	CodeUnknownKey        = "unknown_key"
	CodeDuplicateKey      = "duplicate_key"
	CodeNullNotAllowed    = "null_not_allowed"
	CodeInvalidEnum       = "invalid_enum"
	CodeInvalidFormat     = "invalid_format"
	CodeParseError        = "parse_error"
	CodeOverflow          = "overflow"
	CodeTruncated         = "truncated"
	CodeConstructorFailed = "constructor_failed"
	// Either direction
	CodeCodecUnresolved = "codec_unresolved"
	CodeUnsupportedType = "unsupported_type"
	// Configuration (Build time)
	CodeMissingConstructor    = "missing_constructor"
	CodeAmbiguousConstructor  = "ambiguous_constructor"
	CodeUnmatchedParameter    = "unmatched_parameter"
	CodeDuplicateRegistration = "duplicate_registration"
	CodeUnknownMember         = "unknown_member"
	CodeInvalidSchema         = "invalid_schema"
)

// ErrOptionalAbsent is the panic value of Optional.Value on an absent slot.
var ErrOptionalAbsent = errors.New("dtobind: value of an absent Optional")

// ConfigError is raised while a converter is being built: unusable
// constructors, unmatched parameters, bad registrations.
type ConfigError struct {
	Schema  string // "Capability/Record"
	Member  string // Optional: member or parameter involved.
	Code    string
	Message string
}

func (e *ConfigError) Error() string {
	b := &strings.Builder{}
	b.WriteString("dtobind: ")
	if e.Schema != "" {
		b.WriteString(e.Schema)
		b.WriteString(": ")
	}
	b.WriteString(e.Code)
	if e.Member != "" {
		fmt.Fprintf(b, " (%s)", e.Member)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// DecodeError describes malformed or structurally incomplete input.
type DecodeError struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string
	Message string
	Offset  int64 // Byte offset in the input source (-1 when unknown).
	Cause   error
	// Params carries structured parameters (for example {"member": "ID"}).
	Params map[string]string
}

func (e *DecodeError) Error() string {
	return formatIOError(e.Code, e.Path, e.Message, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// EncodeError describes a value that could not be written.
type EncodeError struct {
	Path    string
	Code    string
	Message string
	Cause   error
}

func (e *EncodeError) Error() string {
	return formatIOError(e.Code, e.Path, e.Message, e.Cause)
}

func (e *EncodeError) Unwrap() error { return e.Cause }

// e.g. "required at /: required property missing: ..."
func formatIOError(code, path, msg string, cause error) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s at %s", code, eng.NormalizePath(path))
	if msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	return b.String()
}

// AsConfigError extracts a *ConfigError using errors.As.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsDecodeError extracts a *DecodeError using errors.As.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// AsEncodeError extracts an *EncodeError using errors.As.
func AsEncodeError(err error) (*EncodeError, bool) {
	var ee *EncodeError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

func message(code string, data map[string]string, detail string) string {
	m := i18n.T(code, data)
	if detail == "" {
		return m
	}
	return m + ": " + detail
}

func configErr(schema, member, code, detail string) *ConfigError {
	return &ConfigError{Schema: schema, Member: member, Code: code, Message: message(code, nil, detail)}
}

// encodeErrAt builds an EncodeError for a value being written at path.
func encodeErrAt(path, code string, cause error, detail string) *EncodeError {
	return &EncodeError{Path: path, Code: code, Message: message(code, nil, detail), Cause: cause}
}
