// Package config provides centralized configuration management for the housing
// report. It loads configuration from multiple sources, validates it, and
// resolves every file system path a run touches.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (YAML, housing.yaml)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern HOUSING_* for namespacing:
//
//	HOUSING_LOGGING_LEVEL=debug
//	HOUSING_ANALYSIS_TRANSACTIONS_FILE=chicago_housing_all_residential.csv
//	HOUSING_ANALYSIS_SIDE_COLORS=firebrick,pink,green
//	HOUSING_RENDER_BACKEND=gonum
//
// Region lists are read from the file only, since region labels such as
// "Chicago, IL" contain the comma envconfig splits lists on.
//
// # Path Management
//
// Paths resolves the data, charts, reports and logs directories once:
//
//	paths, err := config.GetPaths(cfg.Paths, cfg.Analysis)
//	chart := paths.GetChartPath("fig1.png")
//
// # Validation
//
// Configuration is validated with go-playground/validator struct tags at load
// time. Failures are returned as CONFIG AppErrors.
package config
