package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/logging"
	"github.com/blackcoderx/transformer/pkg/storage"
	"github.com/blackcoderx/transformer/pkg/transformer"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "transformer",
		Short: "Convert and normalize API collection documents",
		Long: `transformer converts collection documents between the v1.0.0, v2.0.0 and
v2.1.0 schema generations and normalizes legacy documents into canonical form.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if it exists (optional, warn if malformed)
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load .env file: %v\n", err)
			}
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .transformer.yaml)")

	rootCmd.PersistentFlags().StringP("input", "i", "", "input document (JSON or YAML)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output file (default is stdout)")
	rootCmd.PersistentFlags().Bool("retain-ids", false, "keep existing ids instead of generating new ones")
	rootCmd.PersistentFlags().String("env", "", "environment file used when the collection has no variables")
	rootCmd.PersistentFlags().Bool("pretty", false, "indent JSON output")
	rootCmd.PersistentFlags().Bool("diff", false, "print a unified diff of input and output instead of the output")
	rootCmd.PersistentFlags().Bool("include-noauth", false, "keep noauth blocks")
	rootCmd.PersistentFlags().Bool("exclude-noauth", false, "drop noauth blocks")
	rootCmd.PersistentFlags().Bool("debug", false, "log every transformation step to stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	for _, name := range []string{"input", "output", "retain-ids", "env", "pretty", "diff", "include-noauth", "exclude-noauth", "debug", "log-format"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".transformer")
	}

	viper.SetEnvPrefix("transformer")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// options builds the transformation options from flags, config and
// environment.
func options(logger *slog.Logger) (transformer.Options, error) {
	opts := transformer.Options{
		Options: builder.Options{
			RetainIDs:     viper.GetBool("retain-ids"),
			IncludeNoauth: viper.GetBool("include-noauth"),
			ExcludeNoauth: viper.GetBool("exclude-noauth"),
			Logger:        logger,
		},
	}
	if viper.GetBool("pretty") {
		opts.Indent = "  "
	}

	if path := viper.GetString("env"); path != "" {
		env, err := storage.LoadEnvironment(path)
		if err != nil {
			return opts, err
		}
		opts.Env = env
	}
	return opts, nil
}

func newLogger() *slog.Logger {
	if viper.GetString("log-format") == "json" {
		return logging.NewJSON(os.Stderr, viper.GetBool("debug"))
	}
	return logging.New(os.Stderr, viper.GetBool("debug"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
