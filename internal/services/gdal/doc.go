// Package gdal mediates access to the GDAL command line tools the summary
// needs: gdaltransform for reprojecting a single coordinate and gdalinfo for
// DEM geo-metadata and band statistics.
//
// Key types:
//   - CoordinateConverter: narrow capability for point reprojection
//   - Transformer: gdaltransform-backed converter speaking the
//     "x y\n" -> "x' y'\n" stdin/stdout protocol under a timeout
//   - Inspector / Info: gdalinfo -json backed geo info and statistics
//
// All process execution goes through services.Executor so tests can stub the
// tools. Prefer this package over ad-hoc exec.Command usage so timeouts and
// error markers stay consistent.
package gdal
