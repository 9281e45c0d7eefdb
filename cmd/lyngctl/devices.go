package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nkarlsen/lyngctl/internal/config"
	"github.com/nkarlsen/lyngctl/internal/models"
)

var (
	addEndpoint string
	addModel    string
	addBaud     int
	addNickname string
)

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.AddCommand(devicesAddCmd)
	devicesCmd.AddCommand(devicesRemoveCmd)
	devicesCmd.AddCommand(devicesDefaultCmd)

	devicesAddCmd.Flags().StringVar(&addEndpoint, "endpoint", "", "Endpoint: host[:port] or serial device path (required)")
	devicesAddCmd.Flags().StringVar(&addModel, "model", "mp60", "Processor model (mp50, mp60)")
	devicesAddCmd.Flags().IntVar(&addBaud, "baud", 0, "Serial baud rate override")
	devicesAddCmd.Flags().StringVar(&addNickname, "nickname", "", "Display name")
	devicesAddCmd.MarkFlagRequired("endpoint")
}

// devicesCmd manages saved processors
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage saved processors",
	Long: `List, add and remove saved processors.

Saved processors let commands refer to a device by name:
'lyngctl -d cinema volume up'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		names := reg.Names()
		if len(names) == 0 {
			fmt.Println("No saved processors. Add one with 'lyngctl devices add'.")
			return nil
		}

		defaultName, _ := reg.Default()
		for _, name := range names {
			p := reg.Get(name)
			marker := "  "
			if name == defaultName {
				marker = "* "
			}
			fmt.Printf("%s%-12s %-6s %s", marker, name, p.Model, p.Endpoint)
			if p.Nickname != "" {
				fmt.Printf("  (%s)", p.Nickname)
			}
			fmt.Println()
		}
		return nil
	},
}

var devicesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a processor",
	Example: `  lyngctl devices add cinema --endpoint 192.168.1.80 --model mp60
  lyngctl devices add rack --endpoint /dev/ttyUSB0 --model mp50 --baud 19200`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := models.Lookup(addModel); err != nil {
			return err
		}

		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		reg.Set(args[0], &config.Processor{
			Endpoint: addEndpoint,
			Model:    addModel,
			Nickname: addNickname,
			BaudRate: addBaud,
		})
		if err := reg.Save(); err != nil {
			return err
		}

		fmt.Printf("Saved %q (%s at %s)\n", args[0], addModel, addEndpoint)
		return nil
	},
}

var devicesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved processor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if !reg.Remove(args[0]) {
			return fmt.Errorf("no saved processor named %q", args[0])
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Printf("Removed %q\n", args[0])
		return nil
	},
}

var devicesDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default processor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if reg.Get(args[0]) == nil {
			return fmt.Errorf("no saved processor named %q", args[0])
		}
		reg.Preferences.DefaultProcessor = args[0]
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Printf("Default processor is now %q\n", args[0])
		return nil
	},
}
