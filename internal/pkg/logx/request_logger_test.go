package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.77:5321":             "203.0.113.0",
		"198.51.100.9":                  "198.51.100.0",
		"[::1]:8080":                    "127.0.0.1",
		"2001:db8:85a3:1:2:3:4:5":       "2001:db8:85a3:1::",
		"[2001:db8:85a3:1:2:3:4:5]:443": "2001:db8:85a3:1::",
		"not-an-ip":                     "unknown_ip",
	}

	for in, want := range cases {
		assert.Equal(t, want, AnonymizeIP(in), in)
	}
}
