package history

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// WriteTable prints records as an aligned table, ages relative to now.
func WriteTable(w io.Writer, records []Record, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENDED\tCLICKS\tDURATION\tREASON\tBUTTON\tDELAY\tPOSITION\tSESSION")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			humanize.RelTime(r.EndedAt, now, "ago", "from now"),
			clicksLabel(r),
			r.Duration().Round(time.Millisecond),
			r.Reason,
			r.Button,
			delayLabel(r),
			r.Position,
			shortID(r.ID),
		)
	}
	return tw.Flush()
}

// WriteTotals prints a one-line summary of all history.
func WriteTotals(w io.Writer, t Totals) error {
	_, err := fmt.Fprintf(w, "%s sessions, %s clicks, %s clicking\n",
		humanize.Comma(t.Sessions),
		humanize.Comma(t.Clicks),
		t.Duration.Round(time.Second),
	)
	return err
}

func clicksLabel(r Record) string {
	label := humanize.Comma(int64(r.Clicks))
	if r.Failures > 0 {
		label += fmt.Sprintf(" (%s failed)", humanize.Comma(int64(r.Failures)))
	}
	return label
}

func delayLabel(r Record) string {
	if r.DelayMode == "random" && r.DelayMax > r.DelayMin && r.DelayMin >= 0 {
		return fmt.Sprintf("%d-%dms", r.DelayMin, r.DelayMax)
	}
	return fmt.Sprintf("%dms", r.DelayMs)
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
