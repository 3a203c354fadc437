package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemindCommand(ac *appContext) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send a reminder for plants that are due",
		Long: `Check for plants due today or overdue and send one reminder through the
configured notify.urls (or the log when none are set). With --watch the check
repeats every notify.interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reminder, sender, err := ac.newReminder()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if watch {
				fmt.Fprintf(out, "Checking every %s via %s. Press Ctrl+C to stop.\n", ac.cfg.Notify.Interval, sender.Name())
				return reminder.Run(cmd.Context())
			}

			res, err := reminder.Check(cmd.Context())
			if err != nil {
				return err
			}
			switch {
			case res.Sent:
				fmt.Fprintf(out, "Reminder sent via %s: %s\n", sender.Name(), plantNames(res.Due))
			default:
				fmt.Fprintf(out, "No reminder sent: %s\n", res.Skipped)
				if res.Skipped == "notifications disabled" {
					fmt.Fprintln(out, "Turn reminders on in the Settings view.")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and check every notify.interval")
	return cmd
}
