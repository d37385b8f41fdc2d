package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"+919999999999":   "919999999999",
		"+91 99999-99999": "919999999999",
		"(555) 123-4567":  "5551234567",
		"9999999999":      "9999999999",
		"":                "",
		"abc":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}
