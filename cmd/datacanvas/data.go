package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/datacanvas/datacanvas-go"
)

type dataListOptions struct {
	table   string
	devices []int64
	page    int
	limit   int
	order   string
	all     bool
}

func newDataCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Datatable operations",
	}

	o := &dataListOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List records of a datatable, grouped by device",
		Long: `List records of a datatable, grouped by device.

Without --all one page is fetched; page numbers start at 0. The reported count
is the total number of matching records, not the number printed.`,
		Example: `  # Latest 20 records of every device
  datacanvas data list --table sensor_readings

  # Oldest 100 records of devices 1 and 2
  datacanvas data list --table sensor_readings --device 1,2 --limit 100 --order asc

  # Every record, as YAML
  datacanvas data list --table sensor_readings --all -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			q := datacanvas.DataQuery{
				TableName: o.table,
				DeviceIDs: o.devices,
				Page:      o.page,
				Limit:     o.limit,
				Order:     datacanvas.Order(o.order),
			}

			var res *datacanvas.DataListResult
			if o.all {
				res, err = s.client.ListAllData(cmd.Context(), q)
			} else {
				res, err = s.client.ListData(cmd.Context(), q)
			}
			if err != nil {
				return err
			}

			return s.printer.print(res, func(w io.Writer) {
				fmt.Fprintln(w, "DEVICE\tID\tFIELDS")
				for _, device := range res.DeviceIDs() {
					for _, p := range res.ForDevice(device) {
						id, _ := p.ID()
						fmt.Fprintf(w, "%d\t%d\t%s\n", device, id, formatFields(p.Fields()))
					}
				}
				fmt.Fprintf(w, "\nshowing %d of %d records\n", res.Returned(), res.Count)
			})
		},
	}

	f := list.Flags()
	f.StringVar(&o.table, "table", "", "Datatable name (required)")
	f.Int64SliceVar(&o.devices, "device", nil, "Device ids to include (repeatable or comma-separated); all devices when unset")
	f.IntVar(&o.page, "page", 0, "Page number, starting at 0")
	f.IntVar(&o.limit, "limit", 0, "Records per page (default from config, 20)")
	f.StringVar(&o.order, "order", "", "Sort order, asc or desc (default from config, DESC)")
	f.BoolVar(&o.all, "all", false, "Fetch every page starting at --page")
	_ = list.MarkFlagRequired("table")

	cmd.AddCommand(list)
	return cmd
}
