package summary

import (
	"fmt"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"

	"flightsummary/internal/runlayout"
)

// CSVHeader is the first line of batchInfoSummary.csv.
const CSVHeader = "# startFrame, stopFrame, centerLon, centerLat, meanAlt, meanLidarDiff, meanInterDiff, meanFireDiff, meanFireLidarDiff"

// Row is one batch line of the summary CSV.
type Row struct {
	Frames runlayout.Frames
	// Center is the DEM center as (lon, lat).
	Center        orb.Point
	MeanAlt       float64
	LidarDiff     float64
	InterDiff     float64
	FireDiff      float64
	FireLidarDiff float64
}

// CSV renders the row without a trailing newline.
func (r Row) CSV() string {
	return fmt.Sprintf("%d, %d, %f, %f, %f, %f, %f, %f, %f",
		r.Frames.Start, r.Frames.Stop,
		r.Center.Lon(), r.Center.Lat(),
		r.MeanAlt, r.LidarDiff, r.InterDiff, r.FireDiff, r.FireLidarDiff)
}

// Values returns the seven float columns in CSV order.
func (r Row) Values() []float64 {
	return []float64{r.Center.Lon(), r.Center.Lat(), r.MeanAlt, r.LidarDiff, r.InterDiff, r.FireDiff, r.FireLidarDiff}
}

// Means averages every float column across rows. ok is false for no rows.
func Means(rows []Row) (means []float64, ok bool) {
	if len(rows) == 0 {
		return nil, false
	}
	columns := make([][]float64, len(rows[0].Values()))
	for _, row := range rows {
		for i, v := range row.Values() {
			columns[i] = append(columns[i], v)
		}
	}
	means = make([]float64, len(columns))
	for i, column := range columns {
		means[i] = stat.Mean(column, nil)
	}
	return means, true
}

// Extent returns the lon/lat bound of the batch centers.
func Extent(rows []Row) (orb.Bound, bool) {
	if len(rows) == 0 {
		return orb.Bound{}, false
	}
	bound := rows[0].Center.Bound()
	for _, row := range rows[1:] {
		bound = bound.Extend(row.Center)
	}
	return bound, true
}
