package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueStrict(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-10", time.Date(2025, 1, 10, 0, 0, 0, 0, JST)},
		{"2025-01-10T08:30", time.Date(2025, 1, 10, 8, 30, 0, 0, JST)},
		{"2025-01-10T08:30:15", time.Date(2025, 1, 10, 8, 30, 15, 0, JST)},
		{"2025-01-10T08:30:15.250", time.Date(2025, 1, 10, 8, 30, 15, 250000000, JST)},
		{"2025-01-10 08:30", time.Date(2025, 1, 10, 8, 30, 0, 0, JST)},
		{"2025-01-10 08:30:15", time.Date(2025, 1, 10, 8, 30, 15, 0, JST)},
		{"2025-01-10T08:30:00+09:00", time.Date(2025, 1, 10, 8, 30, 0, 0, JST)},
		{"2025-01-10T15:00:00Z", time.Date(2025, 1, 11, 0, 0, 0, 0, JST)},
		{"2025-01-10T15:00Z", time.Date(2025, 1, 11, 0, 0, 0, 0, JST)},
		{"2025-01-10 01:00:00-05:00", time.Date(2025, 1, 10, 15, 0, 0, 0, JST)},
		{"  2025-01-10  ", time.Date(2025, 1, 10, 0, 0, 0, 0, JST)},
		{"2025-01-10T08", time.Date(2025, 1, 10, 8, 0, 0, 0, JST)},
		{"2025-01-10T08:00+0900", time.Date(2025, 1, 10, 8, 0, 0, 0, JST)},
		{"2025-01-10T08:00:00+0000", time.Date(2025, 1, 10, 17, 0, 0, 0, JST)},
		{"2025-01-10 08:00-0100", time.Date(2025, 1, 10, 18, 0, 0, 0, JST)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDueStrict(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			assert.Equal(t, JST, got.Location())
		})
	}
}

func TestParseDueStrict_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "2025/01/10", "tomorrow", "2025-13-01", "10-01-2025", "2025-01-10T8", "2025-01-10T08:00+9"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDueStrict(in)
			assert.Error(t, err)
		})
	}
}
