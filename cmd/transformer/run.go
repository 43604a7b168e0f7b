package main

import (
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/viper"

	"github.com/blackcoderx/transformer/pkg/storage"
	"github.com/blackcoderx/transformer/pkg/transformer"
)

// entry is one of the JSON entry points of the transformer package.
type entry func(data []byte, opts transformer.Options) ([]byte, error)

// run loads the input document, applies fn and writes the result (or its
// diff against the input) to the output.
func run(fn entry, configure func(*transformer.Options)) error {
	input := viper.GetString("input")
	if input == "" {
		return fmt.Errorf("no input document: use --input")
	}

	logger := newLogger()
	opts, err := options(logger)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	configure(&opts)

	data, err := storage.LoadDocument(input)
	if err != nil {
		return err
	}

	out, err := fn(data, opts)
	if err != nil {
		return err
	}
	logger.Debug("transformed document", "input", input, "bytes", len(out))

	output := viper.GetString("output")
	if viper.GetBool("diff") {
		return printDiff(data, out, input, output)
	}
	if output == "" {
		formatted, err := storage.Format(out, "stdout.json", viper.GetBool("pretty"))
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(formatted)
		return err
	}
	return storage.SaveDocument(out, output, viper.GetBool("pretty"))
}

func printDiff(before, after []byte, input, output string) error {
	original, err := storage.Format(before, "before.json", true)
	if err != nil {
		return err
	}
	modified, err := storage.Format(after, "after.json", true)
	if err != nil {
		return err
	}
	if output == "" {
		output = input
	}

	edits := udiff.Strings(string(original), string(modified))
	unified, err := udiff.ToUnified("a/"+input, "b/"+output, string(original), edits, 3)
	if err != nil {
		return fmt.Errorf("failed to generate diff: %w", err)
	}
	fmt.Print(unified)
	return nil
}
