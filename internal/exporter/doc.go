// Package exporter writes analysis output to disk.
//
// CSVWriter is the core CSV machinery: headers, streaming, and a UTF-8 BOM
// for Excel compatibility. AnalysisExporter renders daily and period record
// tables plus their summary statistics, and TickerExporter writes the
// per-ticker overview produced by dataprocessing.
//
// Example usage:
//
//	ex := exporter.NewAnalysisExporter(logger, cfg.GetOutputDir())
//	if err := ex.ExportResultCSV(res, "tasc_monday_week.csv"); err != nil {
//	    ...
//	}
package exporter
