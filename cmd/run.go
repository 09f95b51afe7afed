package cmd

import (
	"github.com/spf13/cobra"
)

var runFlags settingsFlags

var runCmd = &cobra.Command{
	Use:   "run [flags]",
	Short: "Transform all matching files once",
	Example: `  xorbatch run -i ./incoming -o ./processed -m "*.txt;*.csv" -k 0123456789ABCDEF
  xorbatch run -i ./processed -o ./restored -k 0123456789ABCDEF   # same key undoes it
  xorbatch run -c profile.yaml --no-overwrite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := runFlags.settings(cmd)
		if err != nil {
			return err
		}
		return runSession(cmd, &runFlags, settings, 0)
	},
}

func init() {
	runFlags.register(runCmd)
	runFlags.registerOutput(runCmd)

	rootCmd.AddCommand(runCmd)
}
