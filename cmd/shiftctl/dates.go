package main

import (
	"github.com/spf13/cobra"

	"shiftboard/internal/render"
)

func newDatesCmd(flags *parseFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dates FILE",
		Short: "List the distinct dates of a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := flags.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render.NewTerminal(cmd.OutOrStdout()).Dates(coll)
		},
	}
}
