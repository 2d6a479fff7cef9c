// uvcctl inspects and drives camera control properties from the
// command line: enumerate devices, read and write properties, apply
// presets, and watch hotplug events.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/openuvc/uvcctl/internal/config"
	"github.com/openuvc/uvcctl/pkg/camera"
	"github.com/openuvc/uvcctl/pkg/circuitbreaker"
	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/openuvc/uvcctl/pkg/logger"
	"github.com/openuvc/uvcctl/pkg/platform"
	"github.com/openuvc/uvcctl/pkg/platform/fake"
)

const usage = `usage: uvcctl <command> [args]

commands:
  list                      enumerate devices
  info                      show supported properties and ranges
  get <property>            read a property value
  set <property> <value>    write a property value ("auto" hands back control)
  range <property>          show a property's range metadata
  reset                     restore every supported property to its default
  presets                   list available presets
  apply <preset>            apply a preset
  monitor                   watch hotplug events until interrupted
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "uvcctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)

		return fmt.Errorf("missing command")
	}

	cfg, err := config.Init()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	backend := newBackend()

	if args[0] == "list" {
		return listDevices(backend)
	}

	if args[0] == "monitor" {
		return monitorDevices(ctx, backend, log)
	}

	ctrl, err := openController(backend, cfg, log)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	switch args[0] {
	case "info":
		return showInfo(ctrl)
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: uvcctl get <property>")
		}

		return getProperty(ctrl, args[1])
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: uvcctl set <property> <value|auto>")
		}

		return setProperty(ctrl, args[1], args[2])
	case "range":
		if len(args) != 2 {
			return fmt.Errorf("usage: uvcctl range <property>")
		}

		return showRange(ctrl, args[1])
	case "reset":
		return resetDefaults(ctrl)
	case "presets":
		return listPresets(ctrl)
	case "apply":
		if len(args) != 2 {
			return fmt.Errorf("usage: uvcctl apply <preset>")
		}

		return applyPreset(ctrl, args[1])
	default:
		fmt.Fprint(os.Stderr, usage)

		return fmt.Errorf("unknown command %q", args[0])
	}
}

// newBackend returns the device collaborator. Native platform backends
// register here; the in-memory camera keeps the tool usable where no
// driver stack is present.
func newBackend() platform.Backend {
	backend, _ := fake.NewSeeded()

	return backend
}

func openController(backend platform.Backend, cfg *config.ServiceConfig, log logger.Logger) (*camera.Controller, error) {
	opts := []camera.Option{
		camera.WithLogger(log),
		camera.WithBusyRetry(cfg.Controller.BusyRetries, cfg.Controller.BusyInterval),
	}

	if cfg.Controller.StrictValues {
		opts = append(opts, camera.WithStrictValues())
	}

	if cfg.Controller.StrictStep {
		opts = append(opts, camera.WithStrictStep())
	}

	if cfg.Breaker.Enabled {
		opts = append(opts, camera.WithBreaker(circuitbreaker.Config{
			Name:             cfg.App.ServiceName,
			Enabled:          true,
			MaxRequests:      cfg.Breaker.MaxRequests,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
		}))
	}

	var (
		ctrl *camera.Controller
		err  error
	)

	if cfg.Device.Name != "" {
		ctrl, err = camera.OpenNamed(backend, cfg.Device.Name, opts...)
	} else {
		ctrl, err = camera.OpenIndexController(backend, cfg.Device.Index, opts...)
	}

	if err != nil {
		return nil, err
	}

	if cfg.Controller.PresetsFile != "" {
		if err := ctrl.LoadPresets(cfg.Controller.PresetsFile); err != nil {
			_ = ctrl.Close()

			return nil, err
		}
	}

	return ctrl, nil
}

func listDevices(backend platform.Backend) error {
	res := backend.ListDevices()
	if !res.IsOK() {
		return camera.FromResultError(res.Err(), "list devices")
	}

	for i, dev := range res.Value() {
		fmt.Printf("%d: %s\n", i, dev)
	}

	return nil
}

func showInfo(ctrl *camera.Controller) error {
	fmt.Printf("device: %s (%s)\n", ctrl.DeviceName(), ctrl.DevicePath())

	supported, err := ctrl.SupportedProperties()
	if err != nil {
		return err
	}

	for _, domain := range []string{"camera", "video"} {
		fmt.Printf("%s:\n", domain)

		for _, name := range supported[domain] {
			rng, err := ctrl.PropertyRange(name)
			if err != nil {
				continue
			}

			value, err := ctrl.Get(name)
			if err != nil {
				continue
			}

			fmt.Printf("  %-28s %d (range %d..%d step %d, default %d/%s)\n",
				name, value, rng.Min, rng.Max, rng.Step, rng.Default, rng.DefaultMode)
		}
	}

	return nil
}

func getProperty(ctrl *camera.Controller, name string) error {
	setting, err := ctrl.GetSetting(name)
	if err != nil {
		return err
	}

	fmt.Printf("%s = %s\n", name, setting)

	return nil
}

func setProperty(ctrl *camera.Controller, name, raw string) error {
	if raw == "auto" {
		return ctrl.SetAuto(name)
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("value must be an integer or \"auto\": %w", err)
	}

	return ctrl.Set(name, value)
}

func showRange(ctrl *camera.Controller, name string) error {
	rng, err := ctrl.PropertyRange(name)
	if err != nil {
		return err
	}

	fmt.Printf("%s: min=%d max=%d step=%d default=%d mode=%s\n",
		name, rng.Min, rng.Max, rng.Step, rng.Default, rng.DefaultMode)

	return nil
}

func resetDefaults(ctrl *camera.Controller) error {
	statuses, err := ctrl.ResetToDefaults()
	if err != nil {
		return err
	}

	printStatuses(statuses)

	return nil
}

func listPresets(ctrl *camera.Controller) error {
	for _, name := range ctrl.PresetNames() {
		preset, _ := ctrl.Preset(name)
		fmt.Printf("%s (%d properties)\n", name, len(preset))
	}

	return nil
}

func applyPreset(ctrl *camera.Controller, name string) error {
	statuses, err := ctrl.ApplyPreset(name)
	if err != nil {
		return err
	}

	printStatuses(statuses)

	return nil
}

func printStatuses(statuses map[string]bool) {
	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		status := "ok"
		if !statuses[name] {
			status = "failed"
		}

		fmt.Printf("%-28s %s\n", name, status)
	}
}

func monitorDevices(ctx context.Context, backend platform.Backend, log logger.Logger) error {
	monitor := device.NewMonitor(backend, log)
	monitor.Register(func(added bool, path string) {
		event := "removed"
		if added {
			event = "added"
		}

		fmt.Printf("device %s: %s\n", event, path)
	})
	defer monitor.Unregister()

	fmt.Println("watching for device changes, press Ctrl+C to stop")
	<-ctx.Done()

	return nil
}
