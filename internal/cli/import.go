package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"GroundwaterDash/internal/config"
	"GroundwaterDash/internal/export"
	"GroundwaterDash/internal/reporting"
	"GroundwaterDash/internal/store"

	"github.com/spf13/cobra"
)

// entrySaver persists imported entries.
type entrySaver interface {
	SaveFileEntry(ctx context.Context, e reporting.FileEntry) error
}

// ImportCommand creates the import command
func ImportCommand() *cobra.Command {
	var (
		file string
		out  string
		save bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Convert a register sheet into file entries",
		Long: `Read a register sheet (.xlsx, .xls or .csv) and write the merged file entries
as a JSON snapshot, or upsert them into the configured store with --save.

Examples:
  gwreport import --file register.xlsx --out data/file_entries.json
  GW_STORE_TYPE=pgx gwreport import --file register.xls --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readRegisterFile(file)
			if err != nil {
				return err
			}
			if save {
				saver, closeStore, err := openSaver(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()
				return saveEntries(cmd.Context(), saver, entries, cmd.OutOrStdout())
			}
			w, closeOut, err := openOutput(out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeOut()
			return writeSnapshot(entries, w)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Register sheet to import")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Snapshot output file (default stdout)")
	cmd.Flags().BoolVar(&save, "save", false, "Upsert entries into the configured store")
	cmd.MarkFlagRequired("file")

	return cmd
}

func readRegisterFile(path string) ([]reporting.FileEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return export.ReadRegister(path, f)
}

func writeSnapshot(entries []reporting.FileEntry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func openSaver(ctx context.Context) (entrySaver, func(), error) {
	cfg := config.GetStoreConfig()
	switch cfg.Type {
	case config.StorePgx:
		s, err := store.NewPgxStore(ctx, cfg.ConnectionString)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StorePostgres:
		s, err := store.OpenSQLStore(cfg.ConnectionString)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	return nil, nil, fmt.Errorf("--save needs a database store, GW_STORE_TYPE is %q", cfg.Type)
}

func saveEntries(ctx context.Context, saver entrySaver, entries []reporting.FileEntry, log io.Writer) error {
	for _, e := range entries {
		if err := saver.SaveFileEntry(ctx, e); err != nil {
			return fmt.Errorf("save %s: %w", e.FileNo, err)
		}
	}
	fmt.Fprintf(log, "saved %d file entries\n", len(entries))
	return nil
}
