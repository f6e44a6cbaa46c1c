/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/sysdev"
)

// devicesCmd represents the devices command
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List serial, printer and parallel devices",
	Long: `List the serial, printer and parallel devices MODE can address.

Each device is shown with the DOS name it answers to (COMn, LPTn) when one
maps to it, its platform path and a description. USB adapters carry their
vendor and product IDs when the enumerator can read them.

Unlike "mode /STA", which prints raw device names, this command reports
what is behind each name.`,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := setup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
			os.Exit(1)
		}
		defer env.close()

		describer, ok := env.devices.Registry.(sysdev.DeviceDescriber)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error listing devices: %v\n", mode.ErrUnsupported)
			os.Exit(1)
		}
		devices, err := describer.Describe()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing devices: %v\n", err)
			os.Exit(1)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		filtered := filterDevices(devices, filterType)
		out := cmd.OutOrStdout()
		if len(filtered) == 0 {
			if filterType != "" {
				fmt.Fprintf(out, "No devices found matching filter: %s\n", filterType)
			} else {
				fmt.Fprintln(out, "No devices found")
			}
			return
		}

		if tableFormat {
			renderTable(out, filtered)
		} else {
			renderSimple(out, filtered)
		}
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.Flags().StringP("filter", "f", "", "Filter by device type: serial, printer, parallel, usb, all")
	devicesCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterDevices filters the device list based on the specified filter type
func filterDevices(devices []sysdev.DeviceInfo, filterType string) []sysdev.DeviceInfo {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return devices
	}

	var filtered []sysdev.DeviceInfo
	for _, d := range devices {
		var match bool
		switch filterType {
		case "usb":
			match = d.IsUSB
		case "serial":
			match = d.Kind == mode.DeviceSerial
		case "printer":
			match = d.Kind == mode.DevicePrinter
		case "parallel":
			match = d.Kind == mode.DeviceParallel
		}
		if match {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// renderTable renders the device list in a styled static table format
func renderTable(w io.Writer, devices []sysdev.DeviceInfo) {
	fmt.Fprintf(w, "Found %d device(s):\n\n", len(devices))

	nameWidth := 8
	pathWidth := 22
	typeWidth := 10
	descWidth := 30

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240")).
		PaddingBottom(1)

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		nameWidth, "Name",
		pathWidth, "Path",
		typeWidth, "Type",
		descWidth, "Description")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, d := range devices {
		row := fmt.Sprintf("%-*s %-*s %-*s %-*s",
			nameWidth, d.Name,
			pathWidth, d.Path,
			typeWidth, d.Kind,
			descWidth, deviceSummary(d))
		fmt.Fprintln(w, cellStyle.Render(row))
	}
}

// renderSimple renders the device list in simple text format
func renderSimple(w io.Writer, devices []sysdev.DeviceInfo) {
	for _, d := range devices {
		if d.Name != "" && !strings.EqualFold(d.Name, d.Path) {
			fmt.Fprintf(w, "%s\t%s\n", d.Name, d.Path)
			continue
		}
		fmt.Fprintln(w, d.Path)
	}
}

// deviceSummary appends USB identifiers to the description.
func deviceSummary(d sysdev.DeviceInfo) string {
	if !d.IsUSB {
		return d.Description
	}
	summary := d.Description
	if d.Product != "" {
		summary = d.Product
	}
	return fmt.Sprintf("%s [%s:%s]", summary, d.VendorID, d.ProductID)
}
