// Package dataprocessing ingests raw market data files and turns them into
// domain bars ready for seasonality analysis.
//
// Two input formats are supported: CSV exports (one row per ticker per day)
// and Excel workbooks as distributed by exchange back offices. Both loaders
// tolerate header reordering and UTF-8 BOMs and map rows onto domain.Bar.
//
// The Summarizer condenses a ticker's bar history into the per-ticker
// overview rows used by reports.
package dataprocessing
