package logitech_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openuvc/uvcctl/pkg/platform/fake"
	"github.com/openuvc/uvcctl/pkg/platform/logitech"
	"github.com/openuvc/uvcctl/pkg/result"
)

func TestPropertyRoundTrip(t *testing.T) {
	t.Parallel()

	backend, dev := fake.NewSeeded()

	payload := []byte{0x01}
	require.True(t, logitech.SetProperty(backend, dev, logitech.RightLight, payload).IsOK())

	res := logitech.GetProperty(backend, dev, logitech.RightLight)
	require.True(t, res.IsOK())
	require.Equal(t, payload, res.Value())
}

func TestSupportsProperties(t *testing.T) {
	t.Parallel()

	backend, dev := fake.NewSeeded()

	// No Logitech payloads seeded: the probe answers false, not error.
	res := logitech.SupportsProperties(backend, dev)
	require.True(t, res.IsOK())
	require.False(t, res.Value())

	require.True(t, logitech.SetProperty(backend, dev, logitech.LedIndicator, []byte{0x00}).IsOK())

	res = logitech.SupportsProperties(backend, dev)
	require.True(t, res.IsOK())
	require.True(t, res.Value())
}

func TestSupportsProperties_DeviceFailurePropagates(t *testing.T) {
	t.Parallel()

	backend, dev := fake.NewSeeded()
	backend.FailWith("ReadVendorProperty", result.NewError(result.KindDeviceBusy, "in use"))

	res := logitech.SupportsProperties(backend, dev)
	require.False(t, res.IsOK())
	require.Equal(t, result.KindDeviceBusy, res.Err().Code())
}

func TestProperty_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		prop logitech.Property
		want string
	}{
		{prop: logitech.RightLight, want: "right_light"},
		{prop: logitech.FaceTracking, want: "face_tracking"},
		{prop: logitech.TiltPan, want: "tilt_pan"},
		{prop: logitech.Property(42), want: "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, tc.prop.String())
		})
	}
}
