package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nkarlsen/lyngctl/internal/bridge"
	"github.com/nkarlsen/lyngctl/internal/device"
	"github.com/nkarlsen/lyngctl/internal/discovery"
	"github.com/nkarlsen/lyngctl/internal/monitor"
)

var (
	scanTimeout int
	sendNoWait  bool
	bridgeAddr  string
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(muteCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(serveCmd)

	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 10, "Scan timeout in seconds")
	sendCmd.Flags().BoolVar(&sendNoWait, "no-wait", false, "Do not wait for a reply")
	serveCmd.Flags().StringVar(&bridgeAddr, "listen", ":8084", "Bridge listen address")
}

// scanCmd discovers processors on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Lyngdorf processors on the network",
	Long: `Scan for Lyngdorf processors using mDNS discovery.

Discovered processors can be saved with 'lyngctl devices add' so later
commands can refer to them by name.`,
	Example: `  # Scan for 10 seconds (default)
  lyngctl scan

  # Quick scan
  lyngctl scan --scan-timeout 3`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for Lyngdorf processors (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.Scan(cmd.Context(), time.Duration(scanTimeout)*time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No processors found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the processor is powered (standby is enough)")
		fmt.Println("  - Check that it is on the same network segment")
		fmt.Println("  - Use --endpoint to specify the address manually")
		return nil
	}

	fmt.Printf("Found %d processor(s):\n\n", len(devices))
	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, d.Hostname)
		fmt.Printf("   Model:    %s\n", d.Model)
		fmt.Printf("   Endpoint: %s\n", d.Endpoint())
		fmt.Println()
	}

	fmt.Println("Save one with 'lyngctl devices add <name> --endpoint <addr> --model <model>'")
	return nil
}

// statusCmd shows a snapshot of the processor state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show processor status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *device.Client) error {
			name, err := c.Name(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Device:   %s (%s)\n", name, c.Endpoint())

			if on, err := c.Power.Get(ctx); err == nil {
				fmt.Printf("Power:    %s\n", onOff(on, "on", "standby"))
				if !on {
					return nil
				}
			}
			if db, err := c.Volume.Get(ctx); err == nil {
				fmt.Printf("Volume:   %+.1f dB\n", db)
			}
			if muted, err := c.Mute.Get(ctx); err == nil && muted {
				fmt.Println("Mute:     on")
			}
			if src, err := c.Source.Get(ctx); err == nil {
				fmt.Printf("Source:   %s (#%d)\n", src.Name, src.Index)
			}
			if mode, err := c.AudioMode.Get(ctx); err == nil && mode.Name != "" {
				fmt.Printf("Audio:    %s\n", mode.Name)
			}
			if pos, err := c.RoomPerfect.GetPosition(ctx); err == nil && pos.Name != "" {
				fmt.Printf("Focus:    %s\n", pos.Name)
			}
			if voi, err := c.RoomPerfect.GetVoicing(ctx); err == nil && voi.Name != "" {
				fmt.Printf("Voicing:  %s\n", voi.Name)
			}
			if on, err := c.Zone2.Power.Get(ctx); err == nil && on {
				fmt.Println("Zone 2:   on")
			}
			return nil
		})
	},
}

// powerCmd controls main zone power
var powerCmd = &cobra.Command{
	Use:       "power {on|off|status}",
	Short:     "Control main zone power",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *device.Client) error {
			switch args[0] {
			case "on":
				return c.Power.On(ctx)
			case "off":
				return c.Power.Off(ctx)
			case "status":
				on, err := c.Power.Get(ctx)
				if err != nil {
					return err
				}
				fmt.Println(onOff(on, "on", "standby"))
				return nil
			default:
				return fmt.Errorf("unknown power action %q", args[0])
			}
		})
	},
}

// volumeCmd controls main zone volume
var volumeCmd = &cobra.Command{
	Use:   "volume [level|up|down]",
	Short: "Control main zone volume",
	Long: `Set or query the main zone volume in dB.

Without arguments, prints the current volume. With a numeric argument,
sets the volume (clamped to the model's range). 'up' and 'down' step
by the processor's default step.`,
	Example: `  lyngctl volume
  lyngctl volume -- -32.5
  lyngctl volume up`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *device.Client) error {
			if len(args) == 0 {
				db, err := c.Volume.Get(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("%+.1f dB\n", db)
				return nil
			}
			switch args[0] {
			case "up":
				return c.Volume.Up(ctx)
			case "down":
				return c.Volume.Down(ctx)
			default:
				db, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("volume must be a dB value, 'up' or 'down': %q", args[0])
				}
				return c.Volume.Set(ctx, db)
			}
		})
	},
}

// muteCmd controls main zone mute
var muteCmd = &cobra.Command{
	Use:       "mute {on|off|toggle|status}",
	Short:     "Control main zone mute",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "toggle", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *device.Client) error {
			switch args[0] {
			case "on":
				return c.Mute.On(ctx)
			case "off":
				return c.Mute.Off(ctx)
			case "toggle":
				return c.Mute.Toggle(ctx)
			case "status":
				muted, err := c.Mute.Get(ctx)
				if err != nil {
					return err
				}
				fmt.Println(onOff(muted, "muted", "unmuted"))
				return nil
			default:
				return fmt.Errorf("unknown mute action %q", args[0])
			}
		})
	},
}

// sourceCmd controls input selection
var sourceCmd = &cobra.Command{
	Use:   "source [index|list|next|prev]",
	Short: "Control input selection",
	Example: `  # Show the current source
  lyngctl source

  # List available sources
  lyngctl source list

  # Select source 4
  lyngctl source 4`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *device.Client) error {
			if len(args) == 0 {
				src, err := c.Source.Get(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("%s (#%d)\n", src.Name, src.Index)
				return nil
			}
			switch args[0] {
			case "list":
				sources, err := c.Source.Discover(ctx)
				if err != nil {
					return err
				}
				current, _ := c.Source.Get(ctx)
				for _, s := range sources {
					marker := "  "
					if s.Index == current.Index {
						marker = "* "
					}
					fmt.Printf("%s%2d  %s\n", marker, s.Index, s.Name)
				}
				return nil
			case "next":
				return c.Source.Next(ctx)
			case "prev":
				return c.Source.Previous(ctx)
			default:
				idx, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("source must be an index, 'list', 'next' or 'prev': %q", args[0])
				}
				return c.Source.Set(ctx, idx)
			}
		})
	},
}

// sendCmd sends a raw protocol command
var sendCmd = &cobra.Command{
	Use:   "send <command>",
	Short: "Send a raw protocol command",
	Long: `Send a protocol command verbatim and print the reply.

The command must include the leading '!'. Use --no-wait for commands
that produce no reply.`,
	Example: `  lyngctl send '!VOL?'
  lyngctl send --no-wait '!POWERONMAIN'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *device.Client) error {
			reply, err := c.Raw(ctx, args[0], !sendNoWait)
			if err != nil {
				return err
			}
			if reply != "" {
				fmt.Println(reply)
			}
			return nil
		})
	},
}

// monitorCmd runs the live status dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live status dashboard",
	Long: `Open a terminal dashboard that follows the processor's status
updates in real time. Volume, mute, source and power can be controlled
with key bindings shown at the bottom of the screen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *device.Client) error {
			return monitor.Run(ctx, c)
		})
	},
}

// serveCmd runs the WebSocket bridge
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the WebSocket bridge",
	Long: `Connect to a processor and expose its state over WebSocket.

Clients connect to ws://<addr>/ws and receive a JSON event for every
status update the processor pushes. Clients may also submit commands
as JSON: {"id":"1","command":"!VOL?","wait":true}.`,
	Example: `  lyngctl serve --device cinema --listen :8084`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *device.Client) error {
			srv := bridge.New(bridge.Config{Addr: bridgeAddr}, c)
			return srv.Run(ctx)
		})
	},
}

func onOff(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
