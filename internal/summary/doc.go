// Package summary builds the flight summary folder for one processing run.
//
// Generate copies the run's packed error log and input camera KML, merges the
// per-batch bundle-adjusted camera KMLs, and writes batchInfoSummary.csv with
// one row per completed batch: frame range, DEM center in lon/lat, mean
// elevation, and the mean of each of the four diff summaries. Batches that
// have a hillshade get a dem_<start>_<stop>_browse.tif link next to the CSV.
//
// Batch metrics are gathered by a bounded worker pool and written afterwards
// in batch order, so the CSV is deterministic regardless of worker count. The
// first failing batch stops the write; rows of earlier batches remain.
package summary
