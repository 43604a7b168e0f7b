package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackcoderx/transformer/pkg/storage"
)

func init() {
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Flatten an environment file into YAML",
	Long: `env reads an exported environment (JSON with "values") or a flat map,
resolves {{env:VAR}} references from the process environment and writes the
result as a flat YAML map. A missing .yaml extension is added.`,
	Example: `  transformer env -i dev.postman_environment.json -o dev.yaml
  transformer env --env staging.json -o staging`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := viper.GetString("input")
		if input == "" {
			input = viper.GetString("env")
		}
		output := viper.GetString("output")
		if input == "" || output == "" {
			return fmt.Errorf("env needs --input (or --env) and --output")
		}

		env, err := storage.LoadEnvironment(input)
		if err != nil {
			return err
		}
		if err := storage.SaveEnvironment(env, output); err != nil {
			return err
		}
		newLogger().Debug("environment written", "input", input, "output", output, "values", len(env.Values))
		return nil
	},
}
