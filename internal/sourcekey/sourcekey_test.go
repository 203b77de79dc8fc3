package sourcekey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	k, err := Parse("2024", "03.2024")
	require.NoError(t, err)
	assert.Equal(t, "2024/03.2024", k.String())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), k.Date())
	assert.Equal(t, "March", k.MonthName())
}

func TestParse_PaddedAndUnpaddedMatch(t *testing.T) {
	tests := []struct {
		short, long string
	}{
		{"3.24", "03.24"},
		{"1.2025", "01.2025"},
		{"12.2023", "12.2023"},
		{" 9.2024 ", "09.2024"},
	}
	for _, tt := range tests {
		a, err := Parse("2024", tt.short)
		require.NoError(t, err, tt.short)
		b, err := Parse("2024", tt.long)
		require.NoError(t, err, tt.long)
		assert.Equal(t, a, b, "%q vs %q", tt.short, tt.long)
		assert.Equal(t, a.String(), Normalize(a.String()), "canonical keys are fixed points")
	}
}

func TestParse_NotMonthFolder(t *testing.T) {
	for _, name := range []string{"notes", "03", "03.2024.bak", "Mar.2024", "03.", ".2024", ""} {
		_, err := Parse("2024", name)
		assert.ErrorIs(t, err, ErrNotMonthFolder, "folder %q", name)
	}

	_, err := Parse("archive", "03.2024")
	assert.ErrorIs(t, err, ErrNotMonthFolder)
}

func TestParse_MonthOutOfRange(t *testing.T) {
	_, err := Parse("2024", "13.2024")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotMonthFolder)
	assert.Contains(t, err.Error(), "invalid month 13")

	_, err = Parse("2024", "0.2024")
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024/03.2024", "2024/03.2024"},
		{"2024/3.2024", "2024/3.2024"},
		{"3.24", "03.24"},
		{"03.24", "03.24"},
		{"  7.2023 ", "07.2023"},
		{"March 2024", "March 2024"},
		{"nan", "nan"},
		{"1.2.3", "1.2.3"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}
