package dtobind_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dtobind"
)

var warnDup = dtobind.Strictness{OnDuplicateKey: dtobind.Warn}

func TestDetectDuplicateKeys(t *testing.T) {
	iss, err := dtobind.DetectJSONDuplicateKeysBytes([]byte(`{"a":1,"b":2}`), warnDup, -1)
	require.NoError(t, err)
	assert.Empty(t, iss)

	iss, err = dtobind.DetectJSONDuplicateKeysBytes([]byte(`{"a":1,"n":{"x":1,"x":2},"a":3}`), warnDup, -1)
	require.NoError(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, dtobind.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/n/x", iss[0].Path)
	assert.Equal(t, "/a", iss[1].Path)
}

func TestDetectDuplicateKeys_Policies(t *testing.T) {
	doc := `[{"a":1,"a":2},{"b":1,"b":2},{"c":1,"c":2}]`

	iss, err := dtobind.DetectJSONDuplicateKeysBytes([]byte(doc), dtobind.Strictness{OnDuplicateKey: dtobind.Ignore}, -1)
	require.NoError(t, err)
	assert.Empty(t, iss)

	iss, err = dtobind.DetectJSONDuplicateKeysBytes([]byte(doc), dtobind.Strictness{OnDuplicateKey: dtobind.Error}, -1)
	require.NoError(t, err)
	require.Len(t, iss, 1, "stops at the first duplicate")
	assert.Equal(t, "/0/a", iss[0].Path)

	iss, err = dtobind.DetectJSONDuplicateKeysBytes([]byte(doc), warnDup, 2)
	require.NoError(t, err)
	require.Len(t, iss, 3)
	assert.Equal(t, dtobind.CodeTruncated, iss[2].Code)

	iss, err = dtobind.DetectJSONDuplicateKeysBytes([]byte(doc), warnDup, 0)
	require.NoError(t, err)
	assert.Empty(t, iss)
}

func TestDetectDuplicateKeys_Reader(t *testing.T) {
	iss, err := dtobind.DetectJSONDuplicateKeysReader(strings.NewReader(`{"k":1,"k":2}`), warnDup, -1)
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "/k", iss[0].Path)
}

func TestDetectDuplicateKeys_MalformedInput(t *testing.T) {
	iss, err := dtobind.DetectJSONDuplicateKeysBytes([]byte(`{"a":1,"a" 2}`), warnDup, -1)
	require.NoError(t, err)
	require.NotEmpty(t, iss)
	assert.Equal(t, dtobind.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, dtobind.CodeParseError, iss[len(iss)-1].Code)
}
