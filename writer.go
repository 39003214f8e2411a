package dtobind

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"

	eng "github.com/reoring/dtobind/internal/engine"
)

var errWriterState = errors.New("dtobind: token out of place")

// Writer emits JSON tokens. Separators are inserted from a frame stack, so
// codecs only call the token methods in document order. The first error is
// sticky: every later call returns it and writes nothing.
type Writer struct {
	out    *bufio.Writer
	frames []writeFrame
	roots  int
	err    error
}

type writeFrame struct {
	array bool
	count int
	named bool // a member name awaits its value
	key   string
}

// NewWriter returns a Writer emitting to w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: bufio.NewWriter(w)}
}

// Err reports the first error encountered.
func (w *Writer) Err() error { return w.err }

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.out.Flush(); err != nil {
		w.err = err
	}
	return w.err
}

// Path is the JSON Pointer of the value being written.
func (w *Writer) Path() string {
	p := ""
	for _, f := range w.frames {
		if f.array {
			if f.count > 0 {
				p = eng.JoinPath(p, strconv.Itoa(f.count-1))
			}
			continue
		}
		if f.key != "" || f.named {
			p = eng.JoinPath(p, f.key)
		}
	}
	return eng.NormalizePath(p)
}

// BeginObject opens an object.
func (w *Writer) BeginObject() error { return w.open(false, '{') }

// BeginArray opens an array.
func (w *Writer) BeginArray() error { return w.open(true, '[') }

// EndObject closes the innermost object.
func (w *Writer) EndObject() error { return w.close(false, '}') }

// EndArray closes the innermost array.
func (w *Writer) EndArray() error { return w.close(true, ']') }

// Name writes a member name inside an object.
func (w *Writer) Name(name string) error {
	if w.err != nil {
		return w.err
	}
	n := len(w.frames)
	if n == 0 || w.frames[n-1].array || w.frames[n-1].named {
		return w.setErr(errWriterState, "member name outside an object")
	}
	top := &w.frames[n-1]
	if top.count > 0 {
		w.out.WriteByte(',')
	}
	top.count++
	top.named = true
	top.key = name
	if err := w.quoted(name); err != nil {
		return err
	}
	w.out.WriteByte(':')
	return nil
}

// String writes a string value.
func (w *Writer) String(s string) error {
	if !w.beforeValue() {
		return w.err
	}
	return w.quoted(s)
}

// Bool writes true or false.
func (w *Writer) Bool(b bool) error {
	if !w.beforeValue() {
		return w.err
	}
	w.out.WriteString(strconv.FormatBool(b))
	return nil
}

// Null writes null.
func (w *Writer) Null() error {
	if !w.beforeValue() {
		return w.err
	}
	w.out.WriteString("null")
	return nil
}

// Int writes a signed integer.
func (w *Writer) Int(v int64) error {
	if !w.beforeValue() {
		return w.err
	}
	var buf [20]byte
	w.out.Write(strconv.AppendInt(buf[:0], v, 10))
	return nil
}

// Uint writes an unsigned integer.
func (w *Writer) Uint(v uint64) error {
	if !w.beforeValue() {
		return w.err
	}
	var buf [20]byte
	w.out.Write(strconv.AppendUint(buf[:0], v, 10))
	return nil
}

// Float writes a float the way encoding/json does; NaN and ±Inf are errors.
func (w *Writer) Float(f float64) error {
	b, err := gojson.Marshal(f)
	if err != nil {
		return w.setErr(err, "")
	}
	if !w.beforeValue() {
		return w.err
	}
	w.out.Write(b)
	return nil
}

// Number writes number text verbatim after checking it is a JSON number.
func (w *Writer) Number(text string) error {
	if _, err := strconv.ParseFloat(text, 64); err != nil || !gojson.Valid([]byte(text)) {
		return w.setErr(errWriterState, "invalid number literal "+strconv.Quote(text))
	}
	if !w.beforeValue() {
		return w.err
	}
	w.out.WriteString(text)
	return nil
}

// Raw writes one pre-encoded JSON value, compacted.
func (w *Writer) Raw(data []byte) error {
	var buf bytes.Buffer
	if err := gojson.Compact(&buf, data); err != nil {
		return w.setErr(err, "invalid raw JSON")
	}
	if !w.beforeValue() {
		return w.err
	}
	w.out.Write(buf.Bytes())
	return nil
}

func (w *Writer) open(array bool, c byte) error {
	if !w.beforeValue() {
		return w.err
	}
	w.frames = append(w.frames, writeFrame{array: array})
	w.out.WriteByte(c)
	return nil
}

func (w *Writer) close(array bool, c byte) error {
	if w.err != nil {
		return w.err
	}
	n := len(w.frames)
	if n == 0 || w.frames[n-1].array != array || w.frames[n-1].named {
		return w.setErr(errWriterState, "unbalanced "+string(c))
	}
	w.frames = w.frames[:n-1]
	w.out.WriteByte(c)
	return nil
}

func (w *Writer) beforeValue() bool {
	if w.err != nil {
		return false
	}
	n := len(w.frames)
	if n == 0 {
		if w.roots > 0 {
			w.out.WriteByte('\n')
		}
		w.roots++
		return true
	}
	top := &w.frames[n-1]
	if top.array {
		if top.count > 0 {
			w.out.WriteByte(',')
		}
		top.count++
		return true
	}
	if !top.named {
		w.setErr(errWriterState, "object value without a member name")
		return false
	}
	top.named = false
	return true
}

func (w *Writer) quoted(s string) error {
	b, err := gojson.MarshalNoEscape(s)
	if err != nil {
		return w.setErr(err, "")
	}
	w.out.Write(b)
	return nil
}

func (w *Writer) setErr(cause error, detail string) error {
	if w.err == nil {
		w.err = encodeErrAt(w.Path(), CodeInvalidType, cause, detail)
	}
	return w.err
}
