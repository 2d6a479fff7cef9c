// Package camera is the top of the stack: a Result-based Camera core
// that owns one device connection, and a Controller façade that trades
// Results for idiomatic Go errors and adds name resolution, batching,
// presets, and motion helpers on top.
package camera

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/openuvc/uvcctl/pkg/platform"
	"github.com/openuvc/uvcctl/pkg/property"
	"github.com/openuvc/uvcctl/pkg/result"
)

const (
	defaultBusyRetries  = 3
	defaultBusyInterval = 100 * time.Millisecond
)

// Camera owns at most one connection to a single device. The connection
// is established lazily on first property access and reused until Close
// or until the backend invalidates it. A Camera is not safe for
// concurrent use; callers serialize access themselves.
type Camera struct {
	backend platform.Backend
	device  device.Device
	conn    platform.Connection

	busyRetries  uint
	busyInterval time.Duration
}

// Open binds a Camera to dev. The device handle only needs a path;
// no driver call is made until the first property operation.
func Open(backend platform.Backend, dev device.Device) result.Result[*Camera] {
	if !dev.IsValid() {
		return result.Err[*Camera](result.KindInvalidArgument, "device has no path")
	}

	return result.Ok(&Camera{
		backend:      backend,
		device:       dev,
		busyRetries:  defaultBusyRetries,
		busyInterval: defaultBusyInterval,
	})
}

// OpenIndex binds a Camera to the i-th enumerated device.
func OpenIndex(backend platform.Backend, i int) result.Result[*Camera] {
	devRes := deviceAt(backend, i)
	if !devRes.IsOK() {
		return result.ErrFrom[*Camera](devRes.Err())
	}

	return Open(backend, devRes.Value())
}

func deviceAt(backend platform.Backend, i int) result.Result[device.Device] {
	listRes := backend.ListDevices()
	if !listRes.IsOK() {
		return result.ErrFrom[device.Device](listRes.Err())
	}

	devices := listRes.Value()
	if i < 0 || i >= len(devices) {
		return result.ErrFrom[device.Device](result.Errorf(result.KindDeviceNotFound,
			"device index %d out of range (%d devices)", i, len(devices)))
	}

	return result.Ok(devices[i])
}

// FindDevice returns the first enumerated device whose name contains
// pattern, case-insensitively.
func FindDevice(backend platform.Backend, pattern string) result.Result[device.Device] {
	listRes := backend.ListDevices()
	if !listRes.IsOK() {
		return result.ErrFrom[device.Device](listRes.Err())
	}

	needle := strings.ToLower(pattern)
	for _, dev := range listRes.Value() {
		if strings.Contains(strings.ToLower(dev.Name), needle) {
			return result.Ok(dev)
		}
	}

	return result.ErrFrom[device.Device](result.Errorf(result.KindDeviceNotFound,
		"no device name matches %q", pattern))
}

func (c *Camera) Device() device.Device {
	return c.device
}

// IsValid reports whether the camera currently holds a usable
// connection. It never dials; a freshly opened camera is not yet valid.
func (c *Camera) IsValid() bool {
	return c.conn != nil && c.conn.IsValid()
}

// Close releases the underlying connection. Closing an unconnected
// camera is a no-op. The camera reconnects on the next operation.
func (c *Camera) Close() error {
	if c.conn == nil {
		return nil
	}

	conn := c.conn
	c.conn = nil

	return conn.Close()
}

// busyError carries a Result failure through the retry loop as a Go
// error without losing the kind.
type busyError struct {
	err result.Error
}

func (e *busyError) Error() string {
	return e.err.Description()
}

// connection returns the live connection, dialing if needed. A busy
// device is retried with exponential backoff; every other failure is
// permanent and surfaces immediately.
func (c *Camera) connection() result.Result[platform.Connection] {
	if c.conn != nil && c.conn.IsValid() {
		return result.Ok(c.conn)
	}

	c.conn = nil

	dial := func() (platform.Connection, error) {
		res := c.backend.CreateConnection(c.device)
		if res.IsOK() {
			return res.Value(), nil
		}

		err := &busyError{err: res.Err()}
		if res.Err().Code() == result.KindDeviceBusy {
			return nil, err
		}

		return nil, backoff.Permanent(err)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.busyInterval

	conn, err := backoff.Retry(context.Background(), dial,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(c.busyRetries))
	if err != nil {
		var be *busyError
		if errors.As(err, &be) {
			return result.ErrFrom[platform.Connection](be.err)
		}

		return result.Err[platform.Connection](result.KindSystemError, err.Error())
	}

	c.conn = conn

	return result.Ok(conn)
}

func (c *Camera) CameraProperty(p property.CamProp) result.Result[property.Setting] {
	connRes := c.connection()
	if !connRes.IsOK() {
		return result.ErrFrom[property.Setting](connRes.Err())
	}

	return connRes.Value().CameraProperty(p)
}

func (c *Camera) SetCameraProperty(p property.CamProp, s property.Setting) result.Result[result.Void] {
	connRes := c.connection()
	if !connRes.IsOK() {
		return result.ErrFrom[result.Void](connRes.Err())
	}

	return connRes.Value().SetCameraProperty(p, s)
}

func (c *Camera) CameraPropertyRange(p property.CamProp) result.Result[property.Range] {
	connRes := c.connection()
	if !connRes.IsOK() {
		return result.ErrFrom[property.Range](connRes.Err())
	}

	return connRes.Value().CameraPropertyRange(p)
}

func (c *Camera) VideoProperty(p property.VidProp) result.Result[property.Setting] {
	connRes := c.connection()
	if !connRes.IsOK() {
		return result.ErrFrom[property.Setting](connRes.Err())
	}

	return connRes.Value().VideoProperty(p)
}

func (c *Camera) SetVideoProperty(p property.VidProp, s property.Setting) result.Result[result.Void] {
	connRes := c.connection()
	if !connRes.IsOK() {
		return result.ErrFrom[result.Void](connRes.Err())
	}

	return connRes.Value().SetVideoProperty(p, s)
}

func (c *Camera) VideoPropertyRange(p property.VidProp) result.Result[property.Range] {
	connRes := c.connection()
	if !connRes.IsOK() {
		return result.ErrFrom[property.Range](connRes.Err())
	}

	return connRes.Value().VideoPropertyRange(p)
}

// GetCapabilities takes a full snapshot of dev's property surface over
// a dedicated short-lived connection.
func GetCapabilities(backend platform.Backend, dev device.Device) result.Result[*device.Capabilities] {
	return device.NewCapabilities(dev, connectVia(backend))
}

// GetCapabilitiesByIndex snapshots the i-th enumerated device.
func GetCapabilitiesByIndex(backend platform.Backend, i int) result.Result[*device.Capabilities] {
	devRes := deviceAt(backend, i)
	if !devRes.IsOK() {
		return result.ErrFrom[*device.Capabilities](devRes.Err())
	}

	return GetCapabilities(backend, devRes.Value())
}

// connectVia adapts a platform backend to the narrow connector the
// capability scanner wants.
func connectVia(backend platform.Backend) device.ConnectFunc {
	return func(dev device.Device) result.Result[device.PropertyConn] {
		connRes := backend.CreateConnection(dev)
		if !connRes.IsOK() {
			return result.ErrFrom[device.PropertyConn](connRes.Err())
		}

		return result.Ok[device.PropertyConn](connRes.Value())
	}
}
