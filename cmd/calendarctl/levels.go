package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"adventcalendar/internal/calendar"
	"adventcalendar/internal/config"
	"adventcalendar/internal/security"
	"adventcalendar/internal/timegate"

	"github.com/spf13/cobra"
)

func newLevelsCmd() *cobra.Command {
	var at, calendarPath string
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List levels and whether the time gate has opened them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if calendarPath == "" {
				calendarPath = cfg.CalendarPath
			}
			cal, err := calendar.Load(calendarPath)
			if err != nil {
				return codeError(2, "loading calendar: %s", err)
			}
			loc, err := cfg.Location()
			if err != nil {
				return codeError(3, "%s", err)
			}
			now, err := parseAt(at, loc)
			if err != nil {
				return codeError(3, "invalid --at: %s", err)
			}
			gate, err := timegate.New(cal, loc, timegate.ClockFunc(func() time.Time { return now }))
			if err != nil {
				return codeError(2, "%s", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tUNLOCKS\tOPENS IN\tSTATE")
			for _, level := range cal.Levels {
				state := "open"
				switch {
				case level.Gate != nil:
					state = "password"
				case gate.ShouldBeLocked(level.ID, now):
					state = "locked"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", level.ID, level.Title, level.UnlockDate, opensIn(gate, level.ID, now), state)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Evaluate at this instant (RFC3339 or YYYY-MM-DD, default now)")
	cmd.Flags().StringVar(&calendarPath, "calendar", "", "Calendar YAML file (default CALENDAR_PATH or built-in)")
	return cmd
}

// opensIn is the time left until a time-gated level opens, or "-"
func opensIn(gate *timegate.Evaluator, id int, now time.Time) string {
	at, ok := gate.UnlockTime(id)
	if !ok || !now.Before(at) {
		return "-"
	}
	return at.Sub(now).Truncate(time.Minute).String()
}

// parseAt accepts RFC3339 or a bare date in loc. Empty means now.
func parseAt(at string, loc *time.Location) (time.Time, error) {
	if at == "" {
		return time.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, at); err == nil {
		return t, nil
	}
	return timegate.ParseDate(at, loc)
}

func newValidateCmd() *cobra.Command {
	var calendarPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a calendar file for structural errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if calendarPath == "" {
				calendarPath = config.Load().CalendarPath
			}
			cal, err := calendar.Load(calendarPath)
			if err != nil {
				return codeError(2, "%s", err)
			}
			source := calendarPath
			if source == "" {
				source = "built-in calendar"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d levels OK\n", source, len(cal.Levels))
			return nil
		},
	}
	cmd.Flags().StringVar(&calendarPath, "calendar", "", "Calendar YAML file (default CALENDAR_PATH or built-in)")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash to paste into a gate's password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := security.HashPassword(args[0])
			if err != nil {
				return codeError(1, "%s", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
