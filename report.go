package gousset

import (
	"fmt"
	"io"
	"strings"
)

const reportRuleWidth = 70

// PrintAllStatistics writes the timing report for every recorded identity to w.
// Nothing is written when no sample has been recorded. Recorded data is left in place,
// so a second call prints the same report again.
func (r *Recorder) PrintAllStatistics(w io.Writer) error {
	groups := r.grouped()
	if len(groups) == 0 {
		return nil
	}

	var b strings.Builder
	for _, entries := range groups {
		fmt.Fprintf(&b, "\n=== Gousset Timing Statistics for Module: %s ===\n", entries[0].Namespace)
		b.WriteString(strings.Repeat("-", reportRuleWidth))
		b.WriteByte('\n')

		for _, e := range entries {
			st := e.Stats
			fmt.Fprintf(&b, "Function: %s\n", e.Name)
			fmt.Fprintf(&b, "  Calls:   %8d\n", st.Count)
			fmt.Fprintf(&b, "  Sum:     %8.6fs\n", st.Sum)
			fmt.Fprintf(&b, "  Average: %8.6fs\n", st.Mean)
			fmt.Fprintf(&b, "  Std Dev: %8.6fs\n", st.StdDev)
			fmt.Fprintf(&b, "  Min:     %8.6fs\n", st.Min)
			fmt.Fprintf(&b, "  Max:     %8.6fs\n", st.Max)
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
