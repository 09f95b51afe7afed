package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xorbatch/internal/config"
)

var configFlags settingsFlags

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings profiles",
}

var configInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write a settings profile from the given flags",
	Example: `  xorbatch config init nightly.yaml -i ./drop -o ./out -m "*.dat" --delete-input --interval 1m
  xorbatch watch -c nightly.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to replace it)", path)
		}

		p, err := configFlags.merged(cmd)
		if err != nil {
			return err
		}
		if _, err := p.Settings(); err != nil {
			return err
		}
		if p.Interval != 0 {
			if err := checkInterval(p.Interval); err != nil {
				return err
			}
		}
		if err := config.Save(path, p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile written to %s\n", path)
		return nil
	},
}

var configForce bool

func init() {
	configFlags.register(configInitCmd)
	configInitCmd.Flags().DurationVar(&configFlags.interval, "interval", 0, "interval used by watch")
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "replace an existing profile")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
