package card

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssue_NumberShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := Issue()

		assert.Len(t, c.Number, NumberLength)
		assert.True(t, strings.HasPrefix(c.Number, IssuerPrefix),
			"number %s should start with issuer prefix", c.Number)
		assert.True(t, ValidChecksum(c.Number),
			"issued number %s must pass the Luhn check", c.Number)
	}
}

func TestIssue_CVVRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := Issue()
		assert.Len(t, c.CVV, 3)
		assert.GreaterOrEqual(t, c.CVV, "100")
		assert.LessOrEqual(t, c.CVV, "999")
	}
}

func TestIssue_ExpiryWindow(t *testing.T) {
	now := time.Now()
	for i := 0; i < 50; i++ {
		c := Issue()
		assert.True(t, c.Expiry.After(now.AddDate(0, 0, 364)),
			"expiry %v should be at least a year out", c.Expiry)
		assert.True(t, c.Expiry.Before(now.AddDate(0, 0, 1826)),
			"expiry %v should be at most five years out", c.Expiry)
	}
}

func TestValidChecksum_KnownNumbers(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{"classic test number", "79927398713", true},
		{"classic test number off by one", "79927398714", false},
		{"visa test number", "4539578763621486", true},
		{"empty", "", false},
		{"non-digit input", "4539a78763621486", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidChecksum(tt.number))
		})
	}
}

// The Luhn guarantee: changing any single digit of a valid number breaks the
// checksum.
func TestValidChecksum_DetectsSingleDigitErrors(t *testing.T) {
	c := Issue()

	for pos := 0; pos < len(c.Number); pos++ {
		for d := byte('0'); d <= '9'; d++ {
			if c.Number[pos] == d {
				continue
			}
			mutated := c.Number[:pos] + string(d) + c.Number[pos+1:]
			assert.False(t, ValidChecksum(mutated),
				"mutation %s of %s should fail the check", mutated, c.Number)
		}
	}
}
