package codec

import (
	"strings"

	"github.com/google/uuid"

	"github.com/reoring/dtobind"
)

// UUID returns a codec for uuid.UUID. Input may be dashed or 32 hex digits;
// output is dashed, or bare hex when compact is set.
func UUID(compact bool) dtobind.TypedCodec {
	return dtobind.CodecFuncs(
		func(r *dtobind.Reader, _ *dtobind.Options) (uuid.UUID, error) {
			if r.Kind() != dtobind.TokenString {
				return uuid.Nil, r.Errorf(dtobind.CodeInvalidType, "expected UUID string, got %s", r.Kind())
			}
			id, err := uuid.Parse(r.Token().String)
			if err != nil {
				de := r.Errorf(dtobind.CodeInvalidFormat, "invalid UUID %q", r.Token().String)
				de.Cause = err
				return uuid.Nil, de
			}
			return id, nil
		},
		func(w *dtobind.Writer, id uuid.UUID, _ *dtobind.Options) error {
			s := id.String()
			if compact {
				s = strings.ReplaceAll(s, "-", "")
			}
			return w.String(s)
		},
	)
}
