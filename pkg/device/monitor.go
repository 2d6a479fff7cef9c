package device

import (
	"sync"

	"github.com/openuvc/uvcctl/pkg/logger"
)

type (
	// ChangeCallback receives hotplug events. It may run on a backend
	// notification thread, never assume the caller's goroutine.
	ChangeCallback func(added bool, path string)

	// ChangeNotifier is the slice of the backend that delivers hotplug
	// events. Registering replaces any previous callback.
	ChangeNotifier interface {
		RegisterDeviceChange(ChangeCallback)
		UnregisterDeviceChange()
	}

	// Monitor bridges backend hotplug notifications to an application
	// callback. It owns a single callback slot: Register replaces,
	// never stacks. A panicking callback is recovered and logged so it
	// cannot kill the notification thread.
	Monitor struct {
		notifier ChangeNotifier
		log      logger.Logger

		mu       sync.Mutex
		callback ChangeCallback
		active   bool
	}
)

func NewMonitor(notifier ChangeNotifier, log logger.Logger) *Monitor {
	return &Monitor{notifier: notifier, log: log}
}

// Register installs cb as the sole hotplug callback, replacing any
// previous one.
func (m *Monitor) Register(cb ChangeCallback) {
	m.mu.Lock()
	m.callback = cb
	install := !m.active
	m.active = true
	m.mu.Unlock()

	if install {
		m.notifier.RegisterDeviceChange(m.dispatch)
	}
}

// Unregister clears the callback slot and detaches from the backend.
func (m *Monitor) Unregister() {
	m.mu.Lock()
	wasActive := m.active
	m.callback = nil
	m.active = false
	m.mu.Unlock()

	if wasActive {
		m.notifier.UnregisterDeviceChange()
	}
}

func (m *Monitor) dispatch(added bool, path string) {
	m.mu.Lock()
	cb := m.callback
	m.mu.Unlock()

	if cb == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			m.log.Error().
				Bool("added", added).
				Str("path", path).
				Any("panic", r).
				Msg("device change callback panicked")
		}
	}()

	cb(added, path)
}
