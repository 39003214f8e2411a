package dtobind

import (
	"errors"
	"fmt"
	"io"

	eng "github.com/reoring/dtobind/internal/engine"
)

// Reader is the pull-style cursor codecs decode from. A decoder is handed the
// reader positioned on the first token of its value and returns with the
// reader on the value's last token (the scalar itself, or the closing
// bracket of a container).
type Reader struct {
	src   Source
	tok   Token
	paths eng.PathTracker
	path  string
	eof   bool
}

// NewReader wraps src. Call Advance once to move onto the first token.
func NewReader(src Source) *Reader {
	return &Reader{src: src}
}

// Token returns the current token.
func (r *Reader) Token() Token { return r.tok }

// Kind returns the kind of the current token.
func (r *Reader) Kind() TokenKind { return r.tok.Kind }

// NumberMode reports how untyped numbers should be materialized.
func (r *Reader) NumberMode() NumberMode { return r.src.NumberMode() }

// Path is the JSON Pointer of the current token.
func (r *Reader) Path() string { return eng.NormalizePath(r.path) }

// Offset is the byte offset of the current token, or -1 when unknown.
func (r *Reader) Offset() int64 {
	if r.tok.Offset >= 0 {
		return r.tok.Offset
	}
	return r.src.Location()
}

// Depth reports the number of open containers.
func (r *Reader) Depth() int { return r.paths.Depth() }

// Advance moves to the next token. It returns io.EOF only when the input ends
// between top-level values; running out inside a container is a truncation
// error.
func (r *Reader) Advance() error {
	if r.eof {
		return io.EOF
	}
	tok, err := r.src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			if r.paths.Depth() == 0 {
				r.eof = true
				return io.EOF
			}
			return r.fail(CodeTruncated, io.ErrUnexpectedEOF, "input ended inside a container")
		}
		var ie eng.IssueError
		if errors.As(err, &ie) {
			return &DecodeError{Path: ie.Path, Code: ie.Code, Message: message(ie.Code, nil, ie.Message), Offset: r.src.Location(), Cause: err}
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return r.fail(CodeTruncated, err, "")
		}
		return r.fail(CodeParseError, err, "")
	}
	r.tok = tok
	r.path = r.paths.Observe(toEngineToken(tok))
	return nil
}

// Skip consumes the value that starts at the current token. Scalars are
// already complete; containers are consumed up to their closing token.
func (r *Reader) Skip() error {
	switch r.tok.Kind {
	case TokenBeginObject, TokenBeginArray:
	case TokenKey:
		if err := r.Advance(); err != nil {
			return err
		}
		return r.Skip()
	default:
		return nil
	}
	depth := r.paths.Depth()
	for {
		if err := r.Advance(); err != nil {
			if errors.Is(err, io.EOF) {
				return r.fail(CodeTruncated, io.ErrUnexpectedEOF, "")
			}
			return err
		}
		if r.paths.Depth() < depth {
			return nil
		}
	}
}

// ReadTree materializes the current value as map[string]any, []any, string,
// bool, nil, or a number per NumberMode.
func (r *Reader) ReadTree() (any, error) {
	conv := eng.JSONNumber
	if r.NumberMode() == NumberFloat64 {
		conv = eng.Float64
	}
	next := func() (eng.Token, error) {
		if err := r.Advance(); err != nil {
			return eng.Token{}, err
		}
		return toEngineToken(r.tok), nil
	}
	v, err := eng.BuildTree(toEngineToken(r.tok), next, conv)
	if err != nil {
		if _, ok := AsDecodeError(err); ok {
			return nil, err
		}
		return nil, r.fail(CodeParseError, err, "")
	}
	return v, nil
}

// Errorf builds a DecodeError located at the current token. Codecs use it to
// report values they cannot accept.
func (r *Reader) Errorf(code, format string, args ...any) *DecodeError {
	return r.fail(code, nil, fmt.Sprintf(format, args...))
}

func (r *Reader) fail(code string, cause error, detail string) *DecodeError {
	return &DecodeError{Path: r.Path(), Code: code, Message: message(code, nil, detail), Offset: r.Offset(), Cause: cause}
}

// expect fails unless the current token has kind k.
func (r *Reader) expect(k TokenKind) error {
	if r.tok.Kind == k {
		return nil
	}
	return r.fail(CodeInvalidType, nil, "expected "+k.String()+", got "+r.tok.Kind.String())
}

// wrap locates a codec error at the current token unless it already carries
// a location.
func (r *Reader) wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsDecodeError(err); ok {
		return err
	}
	return r.fail(CodeInvalidType, err, "")
}
