package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"GroundwaterDash/internal/config"
	"GroundwaterDash/internal/export"
	"GroundwaterDash/internal/reporting"
	"GroundwaterDash/internal/store"

	"github.com/spf13/cobra"
)

type reportOptions struct {
	snapshotPath     string
	start, end       string
	applicationTypes []string
	purposes         []string
	constituencies   []string
	fileNos          []string
	format           string
	out              string
}

// ReportCommand creates the report command
func ReportCommand() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute a progress and financial report",
		Long: `Compute the progress, financial and account report over the file entries.

Entries come from a JSON snapshot file when --snapshot is given, otherwise from
the store selected by GW_STORE_TYPE.

Examples:
  # Current financial year as JSON
  gwreport report --snapshot data/file_entries.json

  # February 2024, well construction only, as a workbook
  gwreport report --start 01/02/2024 --end 29/02/2024 --purpose BWC --purpose TWC --format xlsx --out feb.xlsx

  # Two files only
  gwreport report --file-no GW/KLM/001 --file-no GW/KLM/002`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadEntries(cmd.Context(), opts.snapshotPath, opts.fileNos)
			if err != nil {
				return err
			}
			out, closeOut, err := openOutput(opts.out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeOut()
			return runReport(entries, opts, time.Now(), out)
		},
	}

	cmd.Flags().StringVar(&opts.snapshotPath, "snapshot", "", "JSON snapshot of file entries (overrides the configured store)")
	cmd.Flags().StringVar(&opts.start, "start", "", "Period start date")
	cmd.Flags().StringVar(&opts.end, "end", "", "Period end date")
	cmd.Flags().StringArrayVar(&opts.applicationTypes, "type", nil, "Application type filter (repeatable)")
	cmd.Flags().StringArrayVar(&opts.purposes, "purpose", nil, "Service purpose filter (repeatable)")
	cmd.Flags().StringArrayVar(&opts.constituencies, "constituency", nil, "Constituency filter (repeatable)")
	cmd.Flags().StringArrayVar(&opts.fileNos, "file-no", nil, "Restrict the report to these file numbers (repeatable)")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format: json or xlsx")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default stdout)")

	return cmd
}

func (o reportOptions) filters(now time.Time) (reporting.ReportFilters, error) {
	f := reporting.ReportFilters{Now: now, Constituencies: o.constituencies}
	if o.start != "" {
		if f.Start = reporting.NormalizeDate(o.start); f.Start == nil {
			return f, fmt.Errorf("invalid --start date %q", o.start)
		}
	}
	if o.end != "" {
		if f.End = reporting.NormalizeDate(o.end); f.End == nil {
			return f, fmt.Errorf("invalid --end date %q", o.end)
		}
	}
	if (f.Start == nil) != (f.End == nil) {
		return f, fmt.Errorf("--start and --end must be given together")
	}
	if f.HasWindow() && f.Start.After(*f.End) {
		return f, fmt.Errorf("--start must not be after --end")
	}
	for _, t := range o.applicationTypes {
		f.ApplicationTypes = append(f.ApplicationTypes, reporting.ApplicationType(t))
	}
	for _, p := range o.purposes {
		f.ServicePurposes = append(f.ServicePurposes, reporting.Purpose(p))
	}
	return f, nil
}

func runReport(entries []reporting.FileEntry, opts reportOptions, now time.Time, out io.Writer) error {
	filters, err := opts.filters(now)
	if err != nil {
		return err
	}
	vm := reporting.ComputeReport(entries, filters)
	switch opts.format {
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(vm)
	case "xlsx":
		return export.WriteWorkbook(vm, out)
	}
	return fmt.Errorf("unknown format %q, expected json or xlsx", opts.format)
}

func loadEntries(ctx context.Context, snapshotPath string, fileNos []string) ([]reporting.FileEntry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.GetStoreConfig()
	if snapshotPath != "" {
		cfg = config.StoreConfig{Type: config.StoreFile, SnapshotPath: snapshotPath}
	}
	src, err := store.Open(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	if c, ok := src.(interface{ Close() error }); ok {
		defer c.Close()
	} else if c, ok := src.(interface{ Close() }); ok {
		defer c.Close()
	}
	return store.Select(ctx, src, fileNos)
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
