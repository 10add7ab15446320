package runlayout

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// File names used inside a run folder.
const (
	ProcessFolderName = "processed"
	ErrorLogName      = "packedErrors.log"
	CamerasInName     = "cameras_in.kml"
	CamerasOutName    = "cameras_out.kml"

	DEMName           = "out-align-DEM.tif"
	HillshadeName     = "out-DEM_HILLSHADE_browse.tif"
	LidarDiffName     = "out-diff.csv"
	InterDiffName     = "out_inter_diff_summary.csv"
	FireDiffName      = "out_fireball_diff_summary.csv"
	FireLidarDiffName = "out_fireLidar_diff_summary.csv"

	batchPrefix = "batch_"
	dateLayout  = "20060102"
)

var siteCaser = cases.Upper(language.Und)

// Run is one site/date processing session backed by a fixed folder layout.
type Run struct {
	site   string
	date   string
	parent string
	folder string
}

// Open resolves the layout for the given run. The site code is upper-cased;
// the date may be given as yyyymmdd or yyyy-mm-dd.
func Open(site, date, parentFolder string) (*Run, error) {
	site = siteCaser.String(strings.TrimSpace(site))
	if site == "" {
		return nil, errors.New("site is required")
	}
	if strings.ContainsAny(site, `/\`) {
		return nil, fmt.Errorf("invalid site %q", site)
	}
	normalized, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	parentFolder = strings.TrimSpace(parentFolder)
	if parentFolder == "" {
		parentFolder = "."
	}
	parent, err := filepath.Abs(parentFolder)
	if err != nil {
		return nil, fmt.Errorf("resolve parent folder: %w", err)
	}
	return &Run{
		site:   site,
		date:   normalized,
		parent: parent,
		folder: filepath.Join(parent, site+"_"+normalized),
	}, nil
}

// NormalizeDate validates a survey date and returns it as yyyymmdd.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{dateLayout, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(dateLayout), nil
		}
	}
	return "", fmt.Errorf("invalid date %q: expected yyyymmdd", value)
}

// Site returns the upper-cased site code.
func (r *Run) Site() string { return r.site }

// Date returns the survey date as yyyymmdd.
func (r *Run) Date() string { return r.date }

// ParentFolder returns the absolute folder holding all runs.
func (r *Run) ParentFolder() string { return r.parent }

// Folder returns the run's root folder.
func (r *Run) Folder() string { return r.folder }

// ProcessFolder returns the folder holding the per-batch outputs.
func (r *Run) ProcessFolder() string { return filepath.Join(r.folder, ProcessFolderName) }

// ErrorLogPath returns the run-wide packed error log.
func (r *Run) ErrorLogPath() string { return filepath.Join(r.folder, ErrorLogName) }

// CamerasInPath returns the input camera KML written before bundle adjustment.
func (r *Run) CamerasInPath() string { return filepath.Join(r.ProcessFolder(), CamerasInName) }

// String implements fmt.Stringer.
func (r *Run) String() string { return r.site + "_" + r.date }
