package output

import (
	"fmt"
	"io"

	"github.com/dargueta/tilecrunch/planner"
	"github.com/gocarina/gocsv"
)

// ReportRow is one line of the size report: how one layer fared in one mode.
type ReportRow struct {
	Layer       string  `csv:"layer"`
	Mode        string  `csv:"mode"`
	Regions     int     `csv:"regions"`
	SourceUnits int     `csv:"source units"`
	Payload     int     `csv:"payload"`
	Dictionary  int     `csv:"dictionary"`
	Total       int     `csv:"total"`
	Ratio       float64 `csv:"ratio"`
	Fits        bool    `csv:"fits"`
	Error       string  `csv:"error"`
}

// ReportRows converts the outcome of [planner.Planner.Compare] into report
// rows, one per attempt. Failed attempts get a row with the error and no sizes.
func ReportRows(layer string, attempts []planner.Attempt) []ReportRow {
	rows := make([]ReportRow, 0, len(attempts))
	for _, attempt := range attempts {
		row := ReportRow{
			Layer: layer,
			Mode:  attempt.Mode.String(),
		}

		if attempt.Err != nil {
			row.Error = attempt.Err.Error()
			rows = append(rows, row)
			continue
		}

		artifact := attempt.Artifact
		row.Regions = len(artifact.Results)
		row.SourceUnits = artifact.SourceUnits
		for _, result := range artifact.Results {
			row.Payload += result.StreamUnits
			row.Dictionary += result.DictionaryUnits
		}
		row.Total = artifact.TotalSize
		row.Ratio = artifact.Ratio()
		row.Fits = true
		rows = append(rows, row)
	}
	return rows
}

// WriteReport writes rows as CSV, header first.
func WriteReport(w io.Writer, rows []ReportRow) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReadReport parses a report written by [WriteReport].
func ReadReport(r io.Reader) ([]ReportRow, error) {
	rows := []ReportRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return rows, nil
}
