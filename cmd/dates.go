package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sperrmuell/sources/schedule"
	"sperrmuell/storage"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the bulky-waste collection dates found in the schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		layout, err := schedule.NewLayout(cfg.Columns(), cfg.CategoryMarker)
		if err != nil {
			return err
		}
		table, err := schedule.Load(cfg.ScheduleFile, layout, cfg.ScheduleOptions())
		if err != nil {
			return err
		}

		tree := storage.NewTree(cfg.OutputDir)
		dates := table.Dates()
		for _, d := range dates {
			status := ""
			if tree.Complete(d) {
				status = " (done)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", storage.DateDirName(d), status)
		}
		logger.Info("%d collection dates in %s", len(dates), cfg.ScheduleFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datesCmd)
}
