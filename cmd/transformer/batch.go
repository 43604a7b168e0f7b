package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackcoderx/transformer/pkg/storage"
	"github.com/blackcoderx/transformer/pkg/transformer"
)

func init() {
	batchCmd.Flags().String("out-dir", "", "directory the results are written to (required)")
	batchCmd.Flags().String("to", "", "schema version to convert to (normalize when empty)")
	_ = batchCmd.MarkFlagRequired("out-dir")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Convert or normalize every collection under a directory",
	Args:  cobra.ExactArgs(1),
	Example: `  transformer batch ./collections --out-dir ./v21 --to 2.1.0
  transformer batch ./legacy --out-dir ./clean`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out-dir")
		to, _ := cmd.Flags().GetString("to")

		logger := newLogger()
		opts, err := options(logger)
		if err != nil {
			return fmt.Errorf("failed to load environment: %w", err)
		}
		fn := transformer.Normalize
		if to != "" {
			opts.OutputVersion = to
			fn = transformer.Convert
		}

		files, err := storage.ListDocuments(args[0])
		if err != nil {
			return err
		}

		var failed int
		for _, name := range files {
			dst, err := storage.WithinDir(name, outDir)
			if err != nil {
				return err
			}
			if err := batchOne(fn, filepath.Join(args[0], name), dst, opts); err != nil {
				logger.Error("transform failed", "file", name, "error", err)
				failed++
				continue
			}
			logger.Debug("transformed", "file", name, "output", dst)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d documents written to %s\n", len(files)-failed, len(files), outDir)
		if failed > 0 {
			return fmt.Errorf("%d documents failed", failed)
		}
		return nil
	},
}

func batchOne(fn callbackEntry, src, dst string, opts transformer.Options) error {
	data, err := storage.LoadDocument(src)
	if err != nil {
		return err
	}
	out, err := fn(data, opts, nil)
	if err != nil {
		return err
	}
	return storage.SaveDocument(out, dst, viper.GetBool("pretty"))
}
