package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackcoderx/transformer/pkg/transformer"
)

func init() {
	convertCmd.Flags().String("input-version", "", "schema version of the input (detected when empty)")
	convertCmd.Flags().String("output-version", "", "schema version to convert to")
	convertCmd.Flags().String("kind", "collection", "document kind: collection, request or response")
	_ = convertCmd.MarkFlagRequired("output-version")
	for _, name := range []string{"input-version", "output-version"} {
		_ = viper.BindPFlag(name, convertCmd.Flags().Lookup(name))
	}
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a document to another schema version",
	Example: `  transformer convert -i collection.json --output-version 1.0.0
  transformer convert -i v1.json -o v21.json --output-version 2.1.0 --retain-ids
  transformer convert -i request.json --kind request --input-version 2.1.0 --output-version 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		fn, err := pick(kind, transformer.Convert, transformer.ConvertSingle, transformer.ConvertResponse)
		if err != nil {
			return err
		}
		return run(fn, func(o *transformer.Options) {
			o.InputVersion = viper.GetString("input-version")
			o.OutputVersion = viper.GetString("output-version")
		})
	},
}
