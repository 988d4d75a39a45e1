package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/carestats/internal/exitcode"
	"github.com/gyeh/carestats/internal/logging"
	"github.com/gyeh/carestats/internal/table"
	"github.com/gyeh/carestats/internal/workspace"
)

var mergeFlags struct {
	base     string
	incoming []string
	out      string
	types    map[string]string
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Append extracts to a base table after schema reconciliation",
	RunE:  runMerge,
}

func init() {
	f := mergeCmd.Flags()
	f.StringVar(&mergeFlags.base, "base", "", "Base CSV (required)")
	f.StringSliceVar(&mergeFlags.incoming, "append", nil, "CSV to append; repeatable (required)")
	f.StringVar(&mergeFlags.out, "out", "", "Output CSV (required)")
	f.StringToStringVar(&mergeFlags.types, "type", nil, "Column dtype of the base table, e.g. 住民コード_conv=int")
	_ = mergeCmd.MarkFlagRequired("base")
	_ = mergeCmd.MarkFlagRequired("append")
	_ = mergeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	types, err := parseTypes(mergeFlags.types)
	if err != nil {
		log.Error().Err(err).Msg("invalid --type")
		os.Exit(exitcode.UsageError)
	}

	s, err := workspace.Open(mergeFlags.base, table.ReadOptions{Types: types, Encoding: cfg.Encoding}, log)
	if err != nil {
		log.Error().Err(err).Msg("open base failed")
		os.Exit(exitcode.ValidationError)
	}
	for _, path := range mergeFlags.incoming {
		// Incoming tables are read untyped and coerced to the base dtypes.
		other, _, err := table.ReadFile(path, table.ReadOptions{Encoding: cfg.Encoding, Log: log})
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("open incoming failed")
			os.Exit(exitcode.ValidationError)
		}
		if err := s.Append(other); err != nil {
			var sm *table.SchemaMismatchError
			if errors.As(err, &sm) {
				log.Error().Strs("missing", sm.Missing).Strs("extra", sm.Extra).Str("file", path).Msg("schema mismatch")
				os.Exit(exitcode.SchemaMismatch)
			}
			log.Error().Err(err).Str("file", path).Msg("merge failed")
			os.Exit(exitcode.SchemaMismatch)
		}
	}
	if err := s.Save(mergeFlags.out); err != nil {
		log.Error().Err(err).Msg("write failed")
		os.Exit(exitcode.OutputError)
	}

	fmt.Printf("Merge complete: %d rows, %d columns → %s\n", s.Table().Len(), len(s.Table().Columns()), mergeFlags.out)
	return nil
}

func parseTypes(in map[string]string) (map[string]table.Dtype, error) {
	out := make(map[string]table.Dtype, len(in))
	for col, name := range in {
		d, err := table.ParseDtype(name)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		out[col] = d
	}
	return out, nil
}
