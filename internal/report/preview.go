package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WritePreview prints the first n rows of the table, numbers grouped for
// readability. n <= 0 prints nothing.
func WritePreview(out io.Writer, t *WideTable, n int) {
	if n <= 0 || t == nil {
		return
	}
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := append([]string{"STATE", "OCCUPATION"}, t.Columns...)
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))

	for i, r := range t.Rows {
		if i >= n {
			break
		}
		cells := []string{r.AreaName, r.OccupationName}
		for _, v := range r.Values {
			if v == nil {
				cells = append(cells, "-")
				continue
			}
			cells = append(cells, p.Sprintf("%.2f", *v))
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
}
