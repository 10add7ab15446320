// Package main hosts the flightsummary CLI entrypoint and command graph.
//
// The root command takes the four positional arguments of the original
// processing script (site, date, parent folder, output folder), resolves the
// external GDAL and orbitviz tools, and runs the summary generator. Auxiliary
// subcommands check tool availability, scaffold configuration, and browse
// the optional summary history.
package main
