package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/nkarlsen/lyngctl/internal/config"
	"github.com/nkarlsen/lyngctl/internal/device"
	"github.com/nkarlsen/lyngctl/internal/models"
)

// Connection flags
var (
	deviceName string
	endpoint   string
	modelID    string
	baudRate   int
	cmdTimeout int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&deviceName, "device", "d", "", "Saved processor name (see 'lyngctl devices')")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "Endpoint: host[:port] or serial device path")
	rootCmd.PersistentFlags().StringVarP(&modelID, "model", "m", "", "Processor model (mp50, mp60)")
	rootCmd.PersistentFlags().IntVar(&baudRate, "baud", 0, "Serial baud rate override")
	rootCmd.PersistentFlags().IntVar(&cmdTimeout, "timeout", 0, "Reply timeout in seconds")
}

// target is a resolved connection destination
type target struct {
	name     string
	endpoint string
	model    string
	opts     device.Options
}

// resolveTarget combines flags and the saved registry into a
// connection target. Flags win over saved entries.
func resolveTarget() (*target, error) {
	t := &target{
		endpoint: endpoint,
		model:    modelID,
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return nil, err
	}

	if deviceName != "" {
		p := reg.Get(deviceName)
		if p == nil {
			return nil, fmt.Errorf("no saved processor named %q (see 'lyngctl devices')", deviceName)
		}
		t.name = deviceName
		if t.endpoint == "" {
			t.endpoint = p.Endpoint
		}
		if t.model == "" {
			t.model = p.Model
		}
		if baudRate == 0 && p.BaudRate != 0 {
			t.opts.Serial.BaudRate = p.BaudRate
		}
	} else if t.endpoint == "" {
		name, p := reg.Default()
		if p == nil {
			return nil, fmt.Errorf("no processor specified: use --endpoint, --device, or save one with 'lyngctl devices add'")
		}
		t.name = name
		t.endpoint = p.Endpoint
		if t.model == "" {
			t.model = p.Model
		}
		if p.BaudRate != 0 {
			t.opts.Serial.BaudRate = p.BaudRate
		}
	}

	if t.model == "" {
		t.model = "mp60"
	}
	if _, err := models.Lookup(t.model); err != nil {
		return nil, err
	}

	if baudRate != 0 {
		t.opts.Serial.BaudRate = baudRate
	}
	if cmdTimeout > 0 {
		t.opts.ReplyTimeout = time.Duration(cmdTimeout) * time.Second
	}

	return t, nil
}

// withClient connects to the resolved target, runs fn, and closes the
// connection. SIGINT and SIGTERM cancel the context.
func withClient(fn func(ctx context.Context, c *device.Client) error) error {
	t, err := resolveTarget()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := device.Connect(ctx, t.model, t.endpoint, t.opts)
	if err != nil {
		return err
	}
	defer c.Close()

	if t.name != "" {
		if reg, err := config.LoadRegistry(); err == nil {
			reg.Touch(t.name)
			reg.Save()
		}
	}

	return fn(ctx, c)
}
