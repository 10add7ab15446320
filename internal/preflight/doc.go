// Package preflight provides readiness checks for the external tools and
// filesystem paths a flight summary depends on.
//
// These checks run in two contexts:
//   - The CLI run path calls CheckSystemDeps before generating so a missing
//     GDAL install fails before any output is written.
//   - The "flightsummary check" command uses RunAll and CheckSystemDeps to
//     display a readiness table.
package preflight
