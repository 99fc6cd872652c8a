package mpesa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"1,234.50", "1234.50"},
		{".75", "0.75"},
		{"12.0.00", "12.00"},
		{"70.00.", "70.00"},
		{"1 234.50", "1234.50"},
		{"0", "0"},
		{"498,760.00.", "498760.00"},
	}

	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			got, err := CleanAmount(c.raw)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(c.want)), "want %s got %s", c.want, got)
		})
	}
}

func TestCleanAmountMalformed(t *testing.T) {
	cases := []string{"", "   ", "abc", ",,", "-5.00", "1.2.3.4x"}

	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			_, err := CleanAmount(raw)
			var malformed *MalformedAmountError
			assert.ErrorAs(t, err, &malformed, "raw %q", raw)
		})
	}
}

func TestCleanAmountIdempotent(t *testing.T) {
	for _, raw := range []string{"1,234.50", ".75", "12.0.00", "70.00."} {
		once, err := CleanAmount(raw)
		require.NoError(t, err)
		twice, err := CleanAmount(once.String())
		require.NoError(t, err)
		assert.True(t, once.Equal(twice), "raw %q: once %s twice %s", raw, once, twice)
	}
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "7:18 PM", normalizeClock("7:18PM"))
	assert.Equal(t, "7:18 PM", normalizeClock("7:18 PM"))
	assert.Equal(t, "6:56 AM", normalizeClock(" 6:56  am "))
}
