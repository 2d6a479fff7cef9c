package platform

import (
	"errors"
	"fmt"

	"github.com/openuvc/uvcctl/pkg/circuitbreaker"
	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/openuvc/uvcctl/pkg/logger"
	"github.com/openuvc/uvcctl/pkg/property"
	"github.com/openuvc/uvcctl/pkg/result"
)

// WithBreaker decorates a backend so every property call on its
// connections runs through a circuit breaker. Once a device fails
// FailureThreshold times in a row the circuit opens and calls are
// rejected as DeviceBusy until the open window elapses, instead of
// hammering a wedged driver.
func WithBreaker(backend Backend, cfg circuitbreaker.Config, log logger.Logger) Backend {
	return &breakerBackend{Backend: backend, cfg: cfg, log: log}
}

type breakerBackend struct {
	Backend

	cfg circuitbreaker.Config
	log logger.Logger
}

func (b *breakerBackend) CreateConnection(dev device.Device) result.Result[Connection] {
	res := b.Backend.CreateConnection(dev)
	if !res.IsOK() {
		return res
	}

	cfg := b.cfg
	if cfg.Name == "" {
		cfg.Name = dev.Key()
	}

	return result.Ok[Connection](&breakerConnection{
		inner:    res.Value(),
		log:      b.log,
		settings: circuitbreaker.New[result.Result[property.Setting]](cfg),
		ranges:   circuitbreaker.New[result.Result[property.Range]](cfg),
		voids:    circuitbreaker.New[result.Result[result.Void]](cfg),
	})
}

type breakerConnection struct {
	inner Connection
	log   logger.Logger

	settings *circuitbreaker.CircuitBreaker[result.Result[property.Setting]]
	ranges   *circuitbreaker.CircuitBreaker[result.Result[property.Range]]
	voids    *circuitbreaker.CircuitBreaker[result.Result[result.Void]]
}

func (c *breakerConnection) IsValid() bool {
	return c.inner.IsValid()
}

func (c *breakerConnection) Close() error {
	return c.inner.Close()
}

func (c *breakerConnection) CameraProperty(p property.CamProp) result.Result[property.Setting] {
	return guard(c, c.settings, func() result.Result[property.Setting] {
		return c.inner.CameraProperty(p)
	})
}

func (c *breakerConnection) SetCameraProperty(p property.CamProp, s property.Setting) result.Result[result.Void] {
	return guard(c, c.voids, func() result.Result[result.Void] {
		return c.inner.SetCameraProperty(p, s)
	})
}

func (c *breakerConnection) CameraPropertyRange(p property.CamProp) result.Result[property.Range] {
	return guard(c, c.ranges, func() result.Result[property.Range] {
		return c.inner.CameraPropertyRange(p)
	})
}

func (c *breakerConnection) VideoProperty(p property.VidProp) result.Result[property.Setting] {
	return guard(c, c.settings, func() result.Result[property.Setting] {
		return c.inner.VideoProperty(p)
	})
}

func (c *breakerConnection) SetVideoProperty(p property.VidProp, s property.Setting) result.Result[result.Void] {
	return guard(c, c.voids, func() result.Result[result.Void] {
		return c.inner.SetVideoProperty(p, s)
	})
}

func (c *breakerConnection) VideoPropertyRange(p property.VidProp) result.Result[property.Range] {
	return guard(c, c.ranges, func() result.Result[property.Range] {
		return c.inner.VideoPropertyRange(p)
	})
}

// guard runs fn through the breaker. Only device-level failures count
// toward tripping it: PropertyNotSupported and value rejections are
// negotiation answers, not signs of a dying device.
func guard[T any](c *breakerConnection, cb *circuitbreaker.CircuitBreaker[result.Result[T]], fn func() result.Result[T]) result.Result[T] {
	res, err := circuitbreaker.Execute(cb, func() (result.Result[T], error) {
		r := fn()
		if !r.IsOK() && countsAsFailure(r.Err().Code()) {
			return r, fmt.Errorf("device failure: %s", r.Err().Description())
		}

		return r, nil
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen),
		errors.Is(err, circuitbreaker.ErrTooManyRequests):
		c.log.Warn().Err(err).Msg("rejecting device call")

		return result.Err[T](result.KindDeviceBusy, "device circuit breaker is open")
	default:
		return res
	}
}

func countsAsFailure(kind result.Kind) bool {
	switch kind {
	case result.KindDeviceNotFound, result.KindDeviceBusy, result.KindSystemError, result.KindPermissionDenied:
		return true
	default:
		return false
	}
}
