package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
)

// FormatDate prints a date or "-" for none.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(domain.DateLayout)
}

// PrintResolved writes the summary of a resolved schedule.
func PrintResolved(w io.Writer, r *domain.ResolvedSchedule) {
	fmt.Fprintf(w, "  End mode: %s\n", r.ActiveEndMode)
	fmt.Fprintf(w, "  End date: %s\n", FormatDate(r.EndDate))
	fmt.Fprintf(w, "  Intakes: %d (%d per day)\n", r.RequiredCount, r.TimesPerDay())
	if r.EndModeCount != nil && *r.EndModeCount != r.RequiredCount {
		fmt.Fprintf(w, "  Requested: %d\n", *r.EndModeCount)
	}
	PrintWarnings(w, r.Warnings)
}

// PrintWarnings writes one line per warning.
func PrintWarnings(w io.Writer, warnings []domain.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "  ! %s: %s\n", warning.Code, warning.Message)
	}
}

// PrintDays writes up to limit day groups; zero prints all.
func PrintDays(w io.Writer, groups []domain.DayGroup, limit int) {
	for i, g := range groups {
		if limit > 0 && i == limit {
			fmt.Fprintf(w, "  ... %d more days\n", len(groups)-limit)
			return
		}
		times := make([]string, len(g.Times))
		for j, t := range g.Times {
			times[j] = t.String()
		}
		fmt.Fprintf(w, "  %s %s  %s\n", g.Day.Format(domain.DateLayout), g.Day.Weekday().String()[:3], strings.Join(times, " "))
	}
}
