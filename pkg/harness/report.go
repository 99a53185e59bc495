package harness

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/bench"
)

// Row is the aggregate of one operation of one target.
type Row struct {
	Target    string
	Operation bench.Operation
	MeanMS    float64
	StdDevMS  float64
	CV        float64
	Trials    int
	// Count is the item count of the last trial.
	Count   int
	Status  Status
	Samples []float64
}

// Aborted records a target that failed.
type Aborted struct {
	Target string
	Err    error
}

// Report is the outcome of a harness run.
type Report struct {
	SessionID string
	Started   time.Time
	Finished  time.Time
	Rows      []Row
	Aborted   []Aborted
}

// AllAborted reports whether no target produced results.
func (r *Report) AllAborted() bool {
	return len(r.Aborted) > 0 && len(r.Rows) == 0
}

// Relative returns the row's mean divided by the fastest mean of the same
// operation across targets.
func (r *Report) Relative(row Row) float64 {
	best := math.Inf(1)
	for _, other := range r.Rows {
		if other.Operation == row.Operation && other.MeanMS < best {
			best = other.MeanMS
		}
	}
	if best == 0 || math.IsInf(best, 1) {
		return 1
	}
	return row.MeanMS / best
}

// Render writes the comparison table and the aborted targets to w.
func (r *Report) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Operation", "Target", "Mean[ms]", "StdDev[ms]", "CV[%]", "Relative", "Trials", "Items", "Status"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, op := range bench.Operations() {
		for _, row := range r.Rows {
			if row.Operation != op {
				continue
			}
			table.Append([]string{
				string(row.Operation),
				row.Target,
				fmt.Sprintf("%.3f", row.MeanMS),
				fmt.Sprintf("%.3f", row.StdDevMS),
				fmt.Sprintf("%.1f", row.CV*100),
				fmt.Sprintf("%.2fx", r.Relative(row)),
				strconv.Itoa(row.Trials),
				strconv.Itoa(row.Count),
				string(row.Status),
			})
		}
	}
	table.Render()

	for _, a := range r.Aborted {
		fmt.Fprintf(w, "** ABORTED ** %s: %v\n", a.Target, a.Err)
	}
}

// ResultFile returns the path of the session's CSV file in dir.
func (r *Report) ResultFile(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.csv", r.SessionID))
}

// SaveCSV writes one row per target and operation followed by the raw trial
// durations in milliseconds. It returns the written path.
func (r *Report) SaveCSV(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create result directory: %w", err)
	}
	path := r.ResultFile(dir)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to save statistics: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"target", "operation", "mean_ms", "stddev_ms", "cv", "trials", "items", "status", "samples_ms"}); err != nil {
		return "", fmt.Errorf("failed to save header: %w", err)
	}
	for _, row := range r.Rows {
		record := []string{
			row.Target,
			string(row.Operation),
			strconv.FormatFloat(row.MeanMS, 'f', -1, 64),
			strconv.FormatFloat(row.StdDevMS, 'f', -1, 64),
			strconv.FormatFloat(row.CV, 'f', -1, 64),
			strconv.Itoa(row.Trials),
			strconv.Itoa(row.Count),
			string(row.Status),
		}
		for _, v := range row.Samples {
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to save data: %w", err)
		}
	}
	for _, a := range r.Aborted {
		if err := writer.Write([]string{a.Target, "", "", "", "", "", "", "aborted: " + a.Err.Error()}); err != nil {
			return "", fmt.Errorf("failed to save data: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush statistics: %w", err)
	}
	return path, nil
}
