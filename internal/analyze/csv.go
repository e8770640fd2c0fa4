package analyze

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WriteCSV writes the result set as CSV with a header row. encoding/csv
// doubles embedded quotes per RFC 4180.
func WriteCSV(w io.Writer, results []AnalysisRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Item ID", "Title", "URL", "Confidence", "Reason"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{r.ItemID, r.Title, r.URL, strconv.Itoa(r.Confidence), r.Reason}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename returns the dated default filename for a CSV export.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("counterfeit-analysis-%s.csv", now.Format("2006-01-02"))
}
