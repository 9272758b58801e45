package solution

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

var csvHeader = []string{"var", "value", "tolerance", "pct_error", "derived"}

// String renders the solution as an aligned text table.
func (s *Solution) String() string {
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader(csvHeader)
	for _, rec := range s.records {
		table.Append([]string{
			rec.Name,
			displayFloat(rec.Value),
			displayFloat(rec.Tolerance),
			displayFloat(rec.PercentError),
			strconv.FormatBool(rec.Derived),
		})
	}
	table.Render()
	return sb.String()
}

// WriteCSV writes the records as CSV with a header row. Undetermined entries
// are written as NaN.
func (s *Solution) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range s.records {
		row := []string{
			rec.Name,
			exactFloat(rec.Value),
			exactFloat(rec.Tolerance),
			exactFloat(rec.PercentError),
			strconv.FormatBool(rec.Derived),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// displayFloat keeps tables readable at 8 significant digits.
func displayFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 8, 64)
}

// exactFloat is the shortest representation that parses back exactly.
func exactFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
