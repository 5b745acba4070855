package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veille-marches/tender-cli/internal/extractor"
	"github.com/veille-marches/tender-cli/internal/model"
)

var (
	extractSave    bool
	extractOutput  string
	extractColumns []string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file> [file...]",
	Short: "Extract structured entries from tender documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var entries []*model.Entry
		for _, path := range args {
			out, err := env.Extractor.ExtractFile(ctx, path)
			if err != nil {
				zap.L().Error("extraction failed", zap.String("file", path), zap.Error(err))
				entries = append(entries, model.ErrorEntry("extraction", "extraction impossible", err.Error()))
				continue
			}
			entries = append(entries, out...)
		}

		extractor.RestrictColumns(entries, extractColumns)

		if extractSave {
			for _, entry := range entries {
				if entry.Erreur != "" {
					continue
				}
				if err := env.Store.UpsertEntry(ctx, entry); err != nil {
					zap.L().Warn("entry not persisted", zap.Error(err))
				}
			}
		}

		return writeEntries(entries, extractOutput)
	},
}

func writeEntries(entries []*model.Entry, path string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal entries")
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return eris.Wrap(err, "write entries")
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}

func init() {
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "persist entries to the store")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output file (default stdout)")
	extractCmd.Flags().StringSliceVar(&extractColumns, "columns", nil, "restrict output to these database columns")
	rootCmd.AddCommand(extractCmd)
}
