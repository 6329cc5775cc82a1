// Package exporter writes the housing analysis results as files.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility, plus one export method per metric shape.
//
// Workbook: Collects the same metric tables as sheets of a single xlsx file.
//
// Summary: Renders a console overview of the run with go-pretty tables.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	err := writer.ExportRegionSeries("ppsf_by_side.csv", "Year", "Median Sale Ppsf", bySide)
//
//	wb, err := exporter.NewWorkbook()
//	defer wb.Close()
//	err = wb.AddRegionSeries("Ppsf by side", "Year", "Median Sale Ppsf", bySide)
//	err = wb.SaveAs(paths.WorkbookFile)
package exporter
