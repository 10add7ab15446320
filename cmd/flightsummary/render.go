package main

import (
	"fmt"
	"strings"

	"flightsummary/internal/catalog"
	"flightsummary/internal/summary"
)

var batchHeaders = []string{"Frames", "Lon", "Lat", "Mean alt", "Lidar", "Inter", "Fire", "Fire/lidar"}

var batchAligns = []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}

func batchTableRows(rows []summary.Row) [][]string {
	out := make([][]string, 0, len(rows)+1)
	for _, row := range rows {
		out = append(out, append([]string{row.Frames.String()}, formatValues(row.Values())...))
	}
	if means, ok := summary.Means(rows); ok && len(rows) > 1 {
		out = append(out, append([]string{"mean"}, formatValues(means)...))
	}
	return out
}

func formatValues(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%.3f", v)
	}
	return out
}

func renderReport(report summary.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s_%s: %d batches, %d thumbnails\n", report.Site, report.Date, len(report.Rows), len(report.Thumbnails))
	if bound, ok := summary.Extent(report.Rows); ok {
		fmt.Fprintf(&b, "Extent: lon %.4f..%.4f, lat %.4f..%.4f\n", bound.Min.Lon(), bound.Max.Lon(), bound.Min.Lat(), bound.Max.Lat())
	}
	b.WriteString(renderTable(batchHeaders, batchTableRows(report.Rows), batchAligns))
	return b.String()
}

func renderHistory(entries []catalog.Entry) string {
	headers := []string{"ID", "Run", "Batches", "Thumbs", "Output", "Created"}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.ID,
			entry.Site + "_" + entry.Date,
			fmt.Sprintf("%d", entry.BatchCount),
			fmt.Sprintf("%d", entry.Thumbnails),
			entry.OutputDir,
			entry.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft})
}
