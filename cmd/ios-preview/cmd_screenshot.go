package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var screenshotDevice string

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Screenshot the currently running simulator without rebuilding",
	RunE:  runScreenshot,
}

func init() {
	screenshotCmd.Flags().StringVar(&screenshotDevice, "device", "", "Simulator device name or UDID")
}

func runScreenshot(cmd *cobra.Command, _ []string) error {
	sim := newSimctl(newRunner())

	device := screenshotDevice
	if device == "" {
		device = cfg.Device
	}

	path, err := sim.QuickScreenshot(cmd.Context(), device)
	if err != nil {
		return err
	}
	color.Green("%s", path)
	return nil
}
