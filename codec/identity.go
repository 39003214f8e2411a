// Package codec holds leaf codecs for common wire representations.
package codec

import (
	"github.com/reoring/dtobind"
)

// Identity returns a codec for T that always uses the default structural
// representation, ignoring codecs registered for T or its elements. Use it
// on a member that must opt out of a type-wide registration.
func Identity[T any]() dtobind.TypedCodec {
	return dtobind.CodecFuncs(
		func(r *dtobind.Reader, _ *dtobind.Options) (T, error) {
			return dtobind.DecodeAs[T](r, nil)
		},
		func(w *dtobind.Writer, v T, _ *dtobind.Options) error {
			return dtobind.EncodeAs(w, v, nil)
		},
	)
}
