package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"biokeeper/internal/client/export"
	"biokeeper/internal/client/listing"
)

const noRecords = "No records found"

type outputOpts struct {
	format string
	file   string
}

func (o *outputOpts) register(fs *pflag.FlagSet, withFile bool) {
	usage := "output format: table or json"
	if withFile {
		usage = "output format: table, json or xlsx"
	}
	fs.StringVarP(&o.format, "output", "o", "table", usage)
	if withFile {
		fs.StringVar(&o.file, "file", "", "destination file for xlsx output")
	}
}

func writeListing[T any](cmd *cobra.Command, o outputOpts, sheet string, table listing.Table[T], items []T) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(o.format) {
	case "", "table":
		if len(items) == 0 {
			fmt.Fprintln(out, noRecords)
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(table.Headers(), "\t"))
		for _, row := range table.Rows(items) {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	case "json":
		if items == nil {
			items = []T{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "xlsx":
		if o.file == "" {
			return fmt.Errorf("--file is required for xlsx output")
		}
		f, err := os.Create(o.file)
		if err != nil {
			return err
		}
		if err := export.XLSX(f, sheet, table.Headers(), table.Rows(items)); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d records to %s\n", len(items), o.file)
		return nil
	}
	return fmt.Errorf("unknown output format %q", o.format)
}

// writeRecord prints one record as header/value lines.
func writeRecord[T any](cmd *cobra.Command, format string, table listing.Table[T], item T) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "", "table":
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		row := table.Rows([]T{item})[0]
		for i, h := range table.Headers() {
			fmt.Fprintf(tw, "%s:\t%s\n", h, row[i])
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	}
	return fmt.Errorf("unknown output format %q", format)
}
