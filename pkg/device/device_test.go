package device_test

import (
	"testing"

	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/stretchr/testify/require"
)

func TestDevice_IdentityIsPathOnly(t *testing.T) {
	t.Parallel()

	a := device.New("Front Camera", "usb#vid_046d&pid_085e#1")
	b := device.New("Renamed Camera", "usb#vid_046d&pid_085e#1")
	c := device.New("Front Camera", "usb#vid_046d&pid_085e#2")

	require.True(t, a.Equal(b), "same path must compare equal regardless of name")
	require.Equal(t, a.Key(), b.Key(), "same path must hash to the same key")
	require.False(t, a.Equal(c), "different paths never compare equal")
	require.NotEqual(t, a.Key(), c.Key())
}

func TestDevice_IsValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		dev      device.Device
		expected bool
	}{
		{
			name:     "path present",
			dev:      device.New("cam", "usb#1"),
			expected: true,
		},
		{
			name:     "name only is not identity",
			dev:      device.New("cam", ""),
			expected: false,
		},
		{
			name:     "zero device",
			dev:      device.Device{},
			expected: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, tc.dev.IsValid())
		})
	}
}

func TestDevice_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "cam (usb#1)", device.New("cam", "usb#1").String())
	require.Equal(t, "usb#1", device.New("", "usb#1").String())
}
