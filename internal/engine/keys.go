package engine

// KeyTracker tells member names apart from string values for tokenizers that
// report both as plain strings (encoding/json, go-json).
type KeyTracker struct {
	frames []keyFrame
}

type keyFrame struct {
	object       bool
	expectingKey bool
}

// Begin opens a container.
func (k *KeyTracker) Begin(object bool) {
	k.frames = append(k.frames, keyFrame{object: object, expectingKey: object})
}

// End closes the innermost container, which completes a value in its parent.
func (k *KeyTracker) End() {
	if n := len(k.frames); n > 0 {
		k.frames = k.frames[:n-1]
	}
	k.Value()
}

// Value marks a scalar value as consumed.
func (k *KeyTracker) Value() {
	if n := len(k.frames); n > 0 && k.frames[n-1].object {
		k.frames[n-1].expectingKey = true
	}
}

// String classifies a string token: it reports true when the string is a
// member name, otherwise the string is treated as a completed value.
func (k *KeyTracker) String() bool {
	if n := len(k.frames); n > 0 {
		top := &k.frames[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	k.Value()
	return false
}
