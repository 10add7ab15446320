// Package runlayout maps a (site, date, parent folder) triple onto the folder
// layout written by the upstream processing pipeline.
//
// A run lives in <parent>/<SITE>_<yyyymmdd>. Its processing folder holds one
// batch_<start>_<stop>[_...] directory per processed frame range, and every
// batch directory follows a fixed naming convention for the aligned DEM, the
// hillshade browse image, the geodiff summaries, and the bundle-adjusted
// camera KML. That convention is owned here (PathsForDEM) so callers receive
// a structured bundle of paths instead of rewriting file names themselves.
package runlayout
