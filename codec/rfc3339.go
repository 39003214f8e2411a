package codec

import (
	"time"

	"github.com/reoring/dtobind"
)

// RFC3339 returns a codec between RFC 3339 strings and time.Time. Output is
// normalized to UTC with trailing zero fractions trimmed.
func RFC3339() dtobind.TypedCodec {
	return dtobind.CodecFuncs(decodeRFC3339, encodeRFC3339)
}

func decodeRFC3339(r *dtobind.Reader, _ *dtobind.Options) (time.Time, error) {
	if r.Kind() != dtobind.TokenString {
		return time.Time{}, r.Errorf(dtobind.CodeInvalidType, "expected RFC3339 string, got %s", r.Kind())
	}
	t, err := parseRFC3339(r.Token().String)
	if err != nil {
		de := r.Errorf(dtobind.CodeInvalidFormat, "invalid RFC3339 time %q", r.Token().String)
		de.Cause = err
		return time.Time{}, de
	}
	return t, nil
}

func encodeRFC3339(w *dtobind.Writer, t time.Time, _ *dtobind.Options) error {
	return w.String(formatRFC3339Canonical(t))
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
