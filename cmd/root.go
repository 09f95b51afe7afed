package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xorbatch",
	Short: "xorbatch - batch XOR transform of a directory of files",
	Long: `xorbatch reads every file matching a mask from an input directory, XORs it
with a repeating 8-byte key and writes the result into an output directory.
Applying the same key again restores the original bytes.

The transform is obfuscation, not encryption.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
