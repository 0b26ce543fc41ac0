package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/datacanvas/datacanvas-go"
)

func newDevicesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Device operations",
	}

	var name string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the devices of the project",
		Example: `  # All devices
  datacanvas devices list

  # Devices whose name contains "boiler", as JSON
  datacanvas devices list --name boiler -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			res, err := s.client.ListDevices(cmd.Context())
			if err != nil {
				return err
			}

			devices := res.Devices
			if name != "" {
				devices = res.FilterByName(name)
			}
			if devices == nil {
				devices = []datacanvas.Device{}
			}

			out := &datacanvas.DeviceListResult{Success: res.Success, Devices: devices}
			return s.printer.print(out, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME")
				for _, d := range devices {
					fmt.Fprintf(w, "%d\t%s\n", d.DeviceID, d.DeviceName)
				}
			})
		},
	}
	list.Flags().StringVar(&name, "name", "", "Only devices whose name contains this text (case-insensitive)")

	cmd.AddCommand(list)
	return cmd
}
