package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"xorbatch/internal/tui"
	"xorbatch/pkg/xorkey"
)

var keyCmd = &cobra.Command{
	Use:   "key <hex>",
	Short: "Validate a key and show the byte sequence it applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := xorkey.Parse(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", keyLabelStyle.Render("key:  "), keyValueStyle.Render(k.String()))
		fmt.Fprintf(out, "%s %s\n", keyLabelStyle.Render("bytes:"), keyValueStyle.Render(fmt.Sprintf("% X", k[:])))
		return nil
	},
}

var (
	keyLabelStyle = lipgloss.NewStyle().Foreground(tui.ColorDim)
	keyValueStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccentAlt)
)

func init() {
	rootCmd.AddCommand(keyCmd)
}
