package naming

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"UserID":     "user_id",
		"HTTPServer": "http_server",
		"IDValue":    "id_value",
		"userName":   "user_name",
		"ID":         "id",
		"name":       "name",
		"ÉtéValue":   "été_value",
		"":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SnakeCase{}.ConvertName(in), in)
	}
	assert.Equal(t, "HTTP_SERVER", SnakeCase{Upper: true}.ConvertName("HTTPServer"))
}

func TestKebabCase(t *testing.T) {
	assert.Equal(t, "user-id", KebabCase{}.ConvertName("UserID"))
	assert.Equal(t, "ID-VALUE", KebabCase{Upper: true}.ConvertName("IDValue"))
}

func TestIdentityAndFunc(t *testing.T) {
	assert.Equal(t, "UserID", Identity.ConvertName("UserID"))
	assert.Equal(t, "USERID", Func(strings.ToUpper).ConvertName("UserID"))
}

func TestSnakeCase_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "http_server", SnakeCase{}.ConvertName("HTTPServer"))
			}
		}()
	}
	wg.Wait()
}
