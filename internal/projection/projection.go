// Package projection picks the reference frames used when converting DEM
// centers to longitude/latitude.
package projection

import (
	"strconv"
	"strings"
)

// WGS84 is the geographic frame every summary coordinate is reported in.
const WGS84 = "EPSG:4326"

const (
	// EPSGSouthPolar is Antarctic polar stereographic.
	EPSGSouthPolar = 3031
	// EPSGNorthPolar is NSIDC sea ice polar stereographic north.
	EPSGNorthPolar = 3413

	southPoleMarker = "+lat_0=-90"
)

// IsSouth reports whether a PROJ string describes a south polar projection.
func IsSouth(projString string) bool {
	return strings.Contains(strings.Join(strings.Fields(projString), " "), southPoleMarker)
}

// EPSGCode returns the polar stereographic code for the hemisphere.
func EPSGCode(isSouth bool) int {
	if isSouth {
		return EPSGSouthPolar
	}
	return EPSGNorthPolar
}

// EPSGString returns the code in "EPSG:<n>" form accepted by GDAL tools.
func EPSGString(isSouth bool) string {
	return "EPSG:" + strconv.Itoa(EPSGCode(isSouth))
}

// SourceFrame returns the EPSG frame to convert from for a DEM whose
// projection is described by projString.
func SourceFrame(projString string) string {
	return EPSGString(IsSouth(projString))
}
