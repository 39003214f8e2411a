package engine

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives every issue, fatal or not. Nil drops non-fatal ones.
	IssueSink func(SimpleIssue)
	// FailFast turns duplicate-key warnings into errors.
	FailFast bool
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	paths PathTracker
	// keys holds one set per open container; arrays get nil.
	keys []map[string]struct{}
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	path := NormalizePath(e.paths.Observe(tok))

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		var set map[string]struct{}
		if tok.Kind == KindBeginObject {
			set = make(map[string]struct{})
		}
		e.keys = append(e.keys, set)
		if e.opt.MaxDepth > 0 && len(e.keys) > e.opt.MaxDepth {
			return Token{}, e.fail(SimpleIssue{Code: "parse_error", Path: path, Message: "max depth exceeded"})
		}
	case KindEndObject, KindEndArray:
		if n := len(e.keys); n > 0 {
			e.keys = e.keys[:n-1]
		}
	case KindKey:
		if n := len(e.keys); n > 0 && e.keys[n-1] != nil {
			set := e.keys[n-1]
			if _, dup := set[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{Code: "duplicate_key", Path: path, Message: "key '" + tok.String + "' duplicated"}
				if e.opt.OnDuplicate == DupError || e.opt.FailFast {
					return Token{}, e.fail(si)
				}
				e.warn(si)
			}
			set[tok.String] = struct{}{}
		}
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return Token{}, e.fail(SimpleIssue{Code: "truncated", Path: path, Message: "max bytes exceeded"})
		}
	}
	return tok, nil
}

func (e *enforcingTokenSource) warn(si SimpleIssue) {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
}

func (e *enforcingTokenSource) fail(si SimpleIssue) error {
	e.warn(si)
	return IssueError{si}
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
