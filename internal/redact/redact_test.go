package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_JSON(t *testing.T) {
	in := `{"api_key":"abcd1234","subject":"Fix login","nested":{"password":"hunter2","note":"ok"}}`
	out := String(in)

	assert.NotContains(t, out, "abcd1234")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "***")
	assert.Contains(t, out, "Fix login")
	assert.Contains(t, out, `"note":"ok"`)
}

func TestString_JSONArrays(t *testing.T) {
	in := `[{"token":"t0p"},{"name":"fine"}]`
	out := String(in)
	assert.NotContains(t, out, "t0p")
	assert.Contains(t, out, "fine")
}

func TestString_SensitiveKeySubstrings(t *testing.T) {
	// Field names merely containing a sensitive word are masked too.
	in := `{"X-Redmine-API-Key":"abcd1234"}`
	out := String(in)
	assert.NotContains(t, out, "abcd1234")
}

func TestString_PlainText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		gone string
		kept string
	}{
		{"query string", "GET /x?key=abcd1234&limit=50", "abcd1234", "limit=50"},
		{"colon form", "token: abcd1234, status: open", "abcd1234", "status: open"},
		{"quoted pair inside text", `prefix "password" : "hunter2" suffix`, "hunter2", "prefix"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := String(tc.in)
			assert.NotContains(t, out, tc.gone)
			assert.Contains(t, out, tc.kept)
		})
	}
}

func TestString_NonSensitivePassthrough(t *testing.T) {
	in := "plain message with nothing to hide"
	assert.Equal(t, in, String(in))
}
