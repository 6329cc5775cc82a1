// Package dataprocessing loads, cleans and aggregates regional housing
// transaction tables.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Loader: reads CSV or XLSX files into a raw gota DataFrame with every
// column kept as text, and reads the mortgage rate file
// 2. Cleaner: turns a raw table into a typed Table of transactions
// 3. Analytics: pure aggregations over a cleaned Table
//
// # Usage
//
//	raw, err := dataprocessing.LoadTable("chicago_housing_all_residential.csv")
//	if err != nil {
//	    return err
//	}
//	table, err := dataprocessing.Clean(raw)
//	if err != nil {
//	    return err
//	}
//	bySide := dataprocessing.MultiAreaPpsfByYear(table, regions)
//
// # Data Flow
//
//	CSV/XLSX → Loader → DataFrame → Cleaner → Table → Analytics → Series
//
// # Error Handling
//
// Errors are *errors.AppError values. Clean fails with errors.ErrInputType
// when given anything but a raw table; parse failures name the row and column.
package dataprocessing
