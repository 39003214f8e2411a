package codec

import (
	"strconv"
	"time"

	"github.com/reoring/dtobind"
)

// UnixMillis returns a codec between JSON numbers of milliseconds since the
// Unix epoch and time.Time. Decoded times are in UTC.
func UnixMillis() dtobind.TypedCodec {
	return dtobind.CodecFuncs(
		func(r *dtobind.Reader, _ *dtobind.Options) (time.Time, error) {
			if r.Kind() != dtobind.TokenNumber {
				return time.Time{}, r.Errorf(dtobind.CodeInvalidType, "expected milliseconds, got %s", r.Kind())
			}
			ms, err := strconv.ParseInt(r.Token().Number, 10, 64)
			if err != nil {
				de := r.Errorf(dtobind.CodeInvalidFormat, "invalid millisecond timestamp %s", r.Token().Number)
				de.Cause = err
				return time.Time{}, de
			}
			return time.UnixMilli(ms).UTC(), nil
		},
		func(w *dtobind.Writer, t time.Time, _ *dtobind.Options) error {
			return w.Int(t.UnixMilli())
		},
	)
}
