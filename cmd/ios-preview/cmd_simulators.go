package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var simulatorsCmd = &cobra.Command{
	Use:   "simulators",
	Short: "List available iPhone and iPad simulators",
	RunE:  runSimulators,
}

func runSimulators(cmd *cobra.Command, _ []string) error {
	sim := newSimctl(newRunner())

	devices, err := sim.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No iOS simulators found. Install simulators via Xcode preferences.")
		return nil
	}

	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Name", "UDID", "State"})
	for _, d := range devices {
		w.AppendRow(table.Row{d.Name, d.UDID, d.State})
	}
	fmt.Println(w.Render())
	return nil
}
