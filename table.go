package gousset

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// ReportTable renders one row per recorded identity as a text table.
// Nothing is written when no sample has been recorded.
func (r *Recorder) ReportTable(w io.Writer) error {
	entries := r.List()
	if len(entries) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Namespace", "Function", "Calls", "Sum", "Average", "Std Dev", "Min", "Max", "Median")
	for _, e := range entries {
		st := e.Stats
		err := table.Append(
			e.Namespace,
			e.Name,
			strconv.Itoa(st.Count),
			seconds(st.Sum),
			seconds(st.Mean),
			seconds(st.StdDev),
			seconds(st.Min),
			seconds(st.Max),
			seconds(st.Median),
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64) + "s"
}
