package cmd

import (
	"github.com/spf13/cobra"
)

var watchFlags settingsFlags

var watchCmd = &cobra.Command{
	Use:   "watch [flags]",
	Short: "Transform matching files repeatedly on a fixed interval until stopped",
	Long: `watch runs the transform immediately and then again every --interval until
interrupted (q or Ctrl+C). A tick is skipped while the previous run is still
busy. Combine with --delete-input to drain a drop folder.`,
	Example: `  xorbatch watch -i ./drop -o ./out --delete-input --interval 10s`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, interval, err := watchFlags.settings(cmd)
		if err != nil {
			return err
		}
		if err := checkInterval(interval); err != nil {
			return err
		}
		return runSession(cmd, &watchFlags, settings, interval)
	},
}

func init() {
	watchFlags.register(watchCmd)
	watchFlags.registerOutput(watchCmd)
	watchCmd.Flags().DurationVar(&watchFlags.interval, "interval", defaultInterval, "time between runs (1s to 1h)")

	rootCmd.AddCommand(watchCmd)
}
