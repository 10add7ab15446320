package gdal

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"flightsummary/internal/services"
)

// GeoInfo is the subset of gdalinfo metadata the summary needs.
type GeoInfo struct {
	ProjString string
	WKT        string
	Center     orb.Point
	Bound      orb.Bound
	Width      int
	Height     int
}

// BandStats holds band-1 statistics as reported by gdalinfo -stats.
type BandStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Inspector reads raster metadata and statistics.
type Inspector interface {
	GeoInfo(ctx context.Context, path string) (GeoInfo, error)
	Stats(ctx context.Context, path string) (BandStats, error)
}

// Info implements Inspector using gdalinfo -json.
type Info struct {
	binary string
	exec   services.Executor
}

// NewInfo constructs a gdalinfo client.
func NewInfo(binary string, opts ...Option) (*Info, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("gdalinfo binary required")
	}
	o := buildOptions(opts)
	return &Info{binary: binary, exec: o.exec}, nil
}

type infoJSON struct {
	Size             []int `json:"size"`
	CoordinateSystem struct {
		WKT   string `json:"wkt"`
		Proj4 string `json:"proj4"`
	} `json:"coordinateSystem"`
	CornerCoordinates map[string][]float64 `json:"cornerCoordinates"`
	Bands             []struct {
		Band     int                          `json:"band"`
		Minimum  *float64                     `json:"minimum"`
		Maximum  *float64                     `json:"maximum"`
		Mean     *float64                     `json:"mean"`
		StdDev   *float64                     `json:"stdDev"`
		Metadata map[string]map[string]string `json:"metadata"`
	} `json:"bands"`
}

// GeoInfo reads projection and extent without computing statistics.
func (i *Info) GeoInfo(ctx context.Context, path string) (GeoInfo, error) {
	raw, err := i.run(ctx, "geoinfo", "-json", "-proj4", path)
	if err != nil {
		return GeoInfo{}, err
	}
	return ParseGeoInfo(raw)
}

// Stats computes band statistics.
func (i *Info) Stats(ctx context.Context, path string) (BandStats, error) {
	raw, err := i.run(ctx, "stats", "-json", "-stats", path)
	if err != nil {
		return BandStats{}, err
	}
	return ParseStats(raw)
}

func (i *Info) run(ctx context.Context, operation string, args ...string) ([]byte, error) {
	path := args[len(args)-1]
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrValidation, "gdal", operation, "empty path", nil)
	}
	output, err := i.exec.Run(ctx, i.binary, args, "")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "gdal", operation, path, err)
	}
	return output, nil
}

// ParseGeoInfo decodes gdalinfo -json output into GeoInfo.
func ParseGeoInfo(raw []byte) (GeoInfo, error) {
	var decoded infoJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return GeoInfo{}, services.Wrap(services.ErrMalformed, "gdal", "geoinfo", "decode gdalinfo json", err)
	}
	center, ok := cornerPoint(decoded.CornerCoordinates, "center")
	if !ok {
		return GeoInfo{}, services.Wrap(services.ErrMalformed, "gdal", "geoinfo", "missing center coordinate", nil)
	}
	info := GeoInfo{
		ProjString: strings.TrimSpace(decoded.CoordinateSystem.Proj4),
		WKT:        strings.TrimSpace(decoded.CoordinateSystem.WKT),
		Center:     center,
		Bound:      orb.Bound{Min: center, Max: center},
	}
	for _, corner := range []string{"upperLeft", "lowerLeft", "upperRight", "lowerRight"} {
		if pt, ok := cornerPoint(decoded.CornerCoordinates, corner); ok {
			info.Bound = info.Bound.Extend(pt)
		}
	}
	if len(decoded.Size) == 2 {
		info.Width, info.Height = decoded.Size[0], decoded.Size[1]
	}
	return info, nil
}

// ParseStats decodes gdalinfo -json -stats output into band-1 statistics.
func ParseStats(raw []byte) (BandStats, error) {
	var decoded infoJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return BandStats{}, services.Wrap(services.ErrMalformed, "gdal", "stats", "decode gdalinfo json", err)
	}
	if len(decoded.Bands) == 0 {
		return BandStats{}, services.Wrap(services.ErrMalformed, "gdal", "stats", "no bands reported", nil)
	}
	band := decoded.Bands[0]
	if band.Mean == nil {
		if mean, ok := metadataFloat(band.Metadata, "STATISTICS_MEAN"); ok {
			band.Mean = &mean
		}
	}
	if band.Mean == nil {
		return BandStats{}, services.Wrap(services.ErrMalformed, "gdal", "stats", "band statistics missing mean", nil)
	}
	stats := BandStats{Mean: *band.Mean}
	if band.Minimum != nil {
		stats.Min = *band.Minimum
	}
	if band.Maximum != nil {
		stats.Max = *band.Maximum
	}
	if band.StdDev != nil {
		stats.StdDev = *band.StdDev
	}
	return stats, nil
}

func cornerPoint(corners map[string][]float64, key string) (orb.Point, bool) {
	values, ok := corners[key]
	if !ok || len(values) < 2 {
		return orb.Point{}, false
	}
	return orb.Point{values[0], values[1]}, true
}

func metadataFloat(metadata map[string]map[string]string, key string) (float64, bool) {
	for _, domain := range metadata {
		if value, ok := domain[key]; ok {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}
