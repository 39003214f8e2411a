package dtobind_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dtobind"
)

const annDoc = `{"id":"u1","name":"Ann","age":30}`

func TestUnmarshal_WholeDocument(t *testing.T) {
	conv := userConverter()
	for _, doc := range []string{"", "   ", annDoc + ` {}`, annDoc + ` x`, `[]`} {
		t.Run(doc, func(t *testing.T) {
			_, err := dtobind.Unmarshal(conv, []byte(doc))
			require.Error(t, err)
			de, ok := dtobind.AsDecodeError(err)
			require.True(t, ok, "got %T", err)
			assert.Contains(t, []string{dtobind.CodeParseError, dtobind.CodeInvalidType}, de.Code)
		})
	}

	_, err := dtobind.Unmarshal(conv, []byte(annDoc+` {}`))
	requireDecodeCode(t, err, dtobind.CodeParseError)

	_, err = dtobind.Unmarshal(conv, []byte(` `+annDoc+"\n"))
	assert.NoError(t, err, "surrounding whitespace is fine")
}

func TestUnmarshal_NilConverter(t *testing.T) {
	_, err := dtobind.Unmarshal[User](nil, []byte(annDoc))
	requireDecodeCode(t, err, dtobind.CodeParseError)
}

func TestDecode_Reader(t *testing.T) {
	u, err := dtobind.Decode(userConverter(), strings.NewReader(annDoc))
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name())
}

func TestMarshal_ReadsBack(t *testing.T) {
	conv := userConverter()
	u, err := dtobind.Unmarshal(conv, []byte(annDoc))
	require.NoError(t, err)

	out, err := dtobind.Marshal(conv, u)
	require.NoError(t, err)
	require.True(t, json.Valid(out), string(out))
	assert.JSONEq(t, `{"id":"u1","name":"Ann","age":30,"mention":"@Ann"}`, string(out))

	again, err := dtobind.Unmarshal(conv, out)
	require.NoError(t, err)
	assert.Equal(t, u.ID(), again.ID())
	assert.Equal(t, u.Name(), again.Name())
	assert.Equal(t, u.Age(), again.Age())
	assert.Equal(t, u.Nickname(), again.Nickname())
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dtobind.WriteTo[User](userConverter(), &buf, nil))
	assert.Equal(t, "null", buf.String())
}

func TestReadFrom_DuplicateKeys(t *testing.T) {
	conv := userConverter()
	doc := []byte(`{"id":"a","name":"n","age":1,"id":"b"}`)

	u, err := dtobind.Unmarshal(conv, doc)
	require.NoError(t, err)
	assert.Equal(t, "b", u.ID(), "last value wins when duplicates are not enforced")

	_, err = dtobind.Unmarshal(conv, doc, dtobind.SourceOpt{Strictness: dtobind.Strictness{OnDuplicateKey: dtobind.Error}})
	de := requireDecodeCode(t, err, dtobind.CodeDuplicateKey)
	assert.Equal(t, "/id", de.Path)

	var warned []*dtobind.DecodeError
	src := dtobind.EnforceSourceWith(dtobind.JSONBytes(doc),
		dtobind.SourceOpt{Strictness: dtobind.Strictness{OnDuplicateKey: dtobind.Warn}},
		func(e *dtobind.DecodeError) { warned = append(warned, e) })
	_, err = dtobind.ReadFrom(conv, src)
	require.NoError(t, err)
	require.Len(t, warned, 1)
	assert.Equal(t, "/id", warned[0].Path)
}

func TestReadFrom_MaxDepth(t *testing.T) {
	doc := []byte(`{"id":"u","name":"n","age":1,"extra":{"deep":[1]}}`)
	_, err := dtobind.Unmarshal(userConverter(), doc, dtobind.SourceOpt{MaxDepth: 2})
	de := requireDecodeCode(t, err, dtobind.CodeParseError)
	assert.Equal(t, "/extra/deep", de.Path)

	_, err = dtobind.Unmarshal(userConverter(), doc, dtobind.SourceOpt{MaxDepth: 3})
	assert.NoError(t, err)
}

func TestDecodeAsEncodeAs(t *testing.T) {
	o := dtobind.NewOptions()
	got, err := dtobind.DecodeAs[[]int](readerAt(t, `[1,2]`), o)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	_, err = dtobind.DecodeAs[[]int](readerAt(t, `[1,"2"]`), o)
	requireDecodeCode(t, err, dtobind.CodeInvalidType)

	var buf bytes.Buffer
	w := dtobind.NewWriter(&buf)
	require.NoError(t, dtobind.EncodeAs(w, map[string]int{"b": 2, "a": 1}, o))
	require.NoError(t, w.Flush())
	assert.Equal(t, `{"a":1,"b":2}`, buf.String())
}

func Example() {
	s, m := userSchema()
	conv := dtobind.Configure(s, nil).
		WithReadName(m.Name, "name", "full_name").
		IncludeWhenWriting(m.Mention).
		MustBuild()

	u, err := dtobind.Unmarshal(conv, []byte(`{"id":"u1","full_name":"Ann","age":30}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	out, _ := dtobind.Marshal(conv, u)
	fmt.Println(string(out))
	// Output:
	// {"id":"u1","name":"Ann","age":30,"mention":"@Ann"}
}

func ExampleAsDecodeError() {
	_, err := dtobind.Unmarshal(userConverter(), []byte(`{"id":"u1","name":"Ann","age":"old"}`))
	if de, ok := dtobind.AsDecodeError(err); ok {
		fmt.Println(de.Code, de.Path)
	}
	// Output:
	// invalid_type /age
}

func ExampleConverter_Members() {
	for _, m := range userConverter().Members() {
		fmt.Println(m.Name, m.ReadNames, m.Writable)
	}
	// Output:
	// ID [id] true
	// Name [name] true
	// Age [age] true
	// Nickname [nickname] true
	// Mention [mention] false
}
