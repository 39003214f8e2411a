package dtobind

import (
	"io"

	eng "github.com/reoring/dtobind/internal/engine"
)

// DetectDuplicateKeys drains src and lists duplicated object members. A
// converter keeps the last value of a repeated primary name, so callers that
// want to reject such input can run this first (or use EnforceSource).
func DetectDuplicateKeys(src Source, strict Strictness, maxIssues int) ([]*DecodeError, error) {
	si, err := eng.DetectDuplicateKeys(EngineTokenSource(src), toEngineDup(strict.OnDuplicateKey), maxIssues)
	if err != nil {
		return nil, err
	}
	out := make([]*DecodeError, 0, len(si))
	for _, s := range si {
		out = append(out, &DecodeError{Path: s.Path, Code: s.Code, Message: s.Message, Offset: -1})
	}
	return out, nil
}

// DetectJSONDuplicateKeysBytes runs DetectDuplicateKeys over a JSON document.
func DetectJSONDuplicateKeysBytes(data []byte, strict Strictness, maxIssues int) ([]*DecodeError, error) {
	return DetectDuplicateKeys(JSONBytes(data), strict, maxIssues)
}

// DetectJSONDuplicateKeysReader consumes r fully.
func DetectJSONDuplicateKeysReader(r io.Reader, strict Strictness, maxIssues int) ([]*DecodeError, error) {
	return DetectDuplicateKeys(JSONReader(r), strict, maxIssues)
}
