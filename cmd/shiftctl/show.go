package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shiftboard/internal/render"
	"shiftboard/internal/schedule"
)

func newShowCmd(flags *parseFlags) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the Day and Night shifts of one date",
		Long: `Print the Day and Night shifts of one date in truck order.

The date may be a key (2025-03-25) or a display date (25/03/2025). Without
--date the earliest date in the schedule is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := flags.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			key, err := resolveDate(coll, date)
			if err != nil {
				return err
			}
			day, ok := coll.Schedule(key)
			if !ok {
				return fmt.Errorf("no shifts scheduled for %s", schedule.DisplayDate(key))
			}
			return render.NewTerminal(cmd.OutOrStdout()).Day(day)
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date to show (YYYY-MM-DD or DD/MM/YYYY)")
	return cmd
}

// resolveDate turns the --date value into a key, defaulting to the earliest date
func resolveDate(coll *schedule.Collection, value string) (string, error) {
	if value == "" {
		dates := coll.Dates()
		if len(dates) == 0 {
			return "", fmt.Errorf("schedule has no dated shifts")
		}
		return dates[0], nil
	}
	if _, ok := schedule.KeyTime(value); ok {
		return value, nil
	}
	key, err := schedule.ParseDisplayDate(value)
	if err != nil {
		return "", fmt.Errorf("invalid --date %q: want YYYY-MM-DD or DD/MM/YYYY", value)
	}
	return key, nil
}
