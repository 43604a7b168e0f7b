package main

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"

	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
	v2 "github.com/blackcoderx/transformer/pkg/schema/v2"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the supported schema versions",
	Run: func(cmd *cobra.Command, args []string) {
		if version == "dev" {
			fmt.Println("transformer (development version)")
		} else if v, err := semver.Parse(version); err != nil {
			fmt.Printf("transformer %s (unparsable version: %v)\n", version, err)
		} else {
			fmt.Println("transformer", v)
		}
		fmt.Println("schema versions:", v1.Version, v2.Version20, v2.Version21)
	},
}
