package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/transformer"
)

func init() {
	normalizeCmd.Flags().String("normalize-version", "", "schema version of the input (detected when empty)")
	normalizeCmd.Flags().String("kind", "collection", "document kind: collection, request or response")
	_ = viper.BindPFlag("normalize-version", normalizeCmd.Flags().Lookup("normalize-version"))
	rootCmd.AddCommand(normalizeCmd)
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Bring a document into canonical form",
	Example: `  transformer normalize -i legacy.json -o clean.json --retain-ids
  transformer normalize -i collection.yaml --diff`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		fn, err := pick(kind, transformer.Normalize, transformer.NormalizeSingle, transformer.NormalizeResponse)
		if err != nil {
			return err
		}
		return run(fn, func(o *transformer.Options) {
			o.InputVersion = viper.GetString("normalize-version")
		})
	},
}

type callbackEntry func(data []byte, opts transformer.Options, cb builder.Callback[[]byte]) ([]byte, error)

// pick returns the entry point for a document kind.
func pick(kind string, collection, request, response callbackEntry) (entry, error) {
	var fn callbackEntry
	switch kind {
	case "collection":
		fn = collection
	case "request":
		fn = request
	case "response":
		fn = response
	default:
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}
	return func(data []byte, opts transformer.Options) ([]byte, error) {
		return fn(data, opts, nil)
	}, nil
}
