package property_test

import (
	"testing"

	"github.com/openuvc/uvcctl/pkg/property"
	"github.com/stretchr/testify/require"
)

func TestRange_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		r           property.Range
		expectError bool
	}{
		{
			name: "well formed range",
			r:    property.Range{Min: -100, Max: 100, Step: 5, Default: 0},
		},
		{
			name: "single value range",
			r:    property.Range{Min: 1, Max: 1, Step: 1, Default: 1},
		},
		{
			name:        "zero step is a defect",
			r:           property.Range{Min: 0, Max: 10, Step: 0, Default: 0},
			expectError: true,
		},
		{
			name:        "negative step is a defect",
			r:           property.Range{Min: 0, Max: 10, Step: -1, Default: 0},
			expectError: true,
		},
		{
			name:        "inverted interval",
			r:           property.Range{Min: 10, Max: 0, Step: 1, Default: 5},
			expectError: true,
		},
		{
			name:        "default below min",
			r:           property.Range{Min: 0, Max: 10, Step: 1, Default: -1},
			expectError: true,
		},
		{
			name:        "default above max",
			r:           property.Range{Min: 0, Max: 10, Step: 1, Default: 11},
			expectError: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.r.Validate()

			if tc.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRange_Clamp(t *testing.T) {
	t.Parallel()

	r := property.Range{Min: -10, Max: 10, Step: 2, Default: 0}

	cases := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "below min saturates", input: -50, expected: -10},
		{name: "above max saturates", input: 50, expected: 10},
		{name: "exact min", input: -10, expected: -10},
		{name: "exact max", input: 10, expected: 10},
		{name: "in range aligned", input: 4, expected: 4},
		{name: "rounds up to nearest step", input: 5, expected: 6},
		{name: "rounds down to nearest step", input: 2, expected: 2},
		{name: "negative rounds to step", input: -3, expected: -2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, r.Clamp(tc.input))
		})
	}
}

func TestRange_ClampIsIdempotentAndValid(t *testing.T) {
	t.Parallel()

	ranges := []property.Range{
		{Min: -10, Max: 10, Step: 2, Default: 0},
		{Min: 0, Max: 255, Step: 1, Default: 128},
		{Min: 2800, Max: 6500, Step: 100, Default: 4600},
		{Min: -5, Max: 7, Step: 3, Default: 1},
	}

	for _, r := range ranges {
		for v := r.Min - 20; v <= r.Max+20; v++ {
			clamped := r.Clamp(v)

			require.True(t, r.IsValid(clamped), "clamp(%d) = %d escapes range %+v", v, clamped, r)
			require.Equal(t, clamped, r.Clamp(clamped), "clamp not idempotent for %d in %+v", v, r)
		}
	}
}

func TestRange_IsValid(t *testing.T) {
	t.Parallel()

	r := property.Range{Min: 0, Max: 100, Step: 10, Default: 50}

	// Lenient: bounds only.
	require.True(t, r.IsValid(0))
	require.True(t, r.IsValid(55))
	require.True(t, r.IsValid(100))
	require.False(t, r.IsValid(-1))
	require.False(t, r.IsValid(101))

	// Strict: bounds and step alignment.
	require.True(t, r.IsValidStrict(50))
	require.False(t, r.IsValidStrict(55))
	require.False(t, r.IsValidStrict(101))
}

func TestRange_DefaultSetting(t *testing.T) {
	t.Parallel()

	r := property.Range{Min: 0, Max: 10, Step: 1, Default: 4, DefaultMode: property.ModeAuto}
	s := r.DefaultSetting()

	require.Equal(t, 4, s.Value)
	require.Equal(t, property.ModeAuto, s.Mode)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		input       string
		expected    property.Mode
		expectError bool
	}{
		{name: "auto", input: "auto", expected: property.ModeAuto},
		{name: "manual", input: "manual", expected: property.ModeManual},
		{name: "uppercase", input: "AUTO", expected: property.ModeAuto},
		{name: "whitespace", input: "  manual ", expected: property.ModeManual},
		{name: "unknown", input: "semi", expectError: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mode, err := property.ParseMode(tc.input)

			if tc.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.expected, mode)
			}
		})
	}
}

func TestSetting_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "80 (manual)", property.NewSetting(80, property.ModeManual).String())
	require.Equal(t, "0 (auto)", property.NewSetting(0, property.ModeAuto).String())
}
