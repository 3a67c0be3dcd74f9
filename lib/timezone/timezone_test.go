package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextOccurrence(t *testing.T) {
	cases := []struct {
		now    time.Time
		expect time.Time
	}{
		{
			now:    time.Date(2024, time.August, 26, 10, 0, 0, 0, Location),
			expect: time.Date(2024, time.August, 26, 20, 2, 0, 0, Location),
		},
		{
			now:    time.Date(2024, time.August, 26, 20, 2, 0, 0, Location),
			expect: time.Date(2024, time.August, 27, 20, 2, 0, 0, Location),
		},
		{
			now:    time.Date(2024, time.December, 31, 23, 59, 0, 0, Location),
			expect: time.Date(2025, time.January, 1, 20, 2, 0, 0, Location),
		},
	}

	for _, test := range cases {
		next := NextOccurrence(test.now, 20, 2, 0)
		require.Equal(t, test.expect, next)
	}
}
