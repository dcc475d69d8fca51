// Package config provides centralized configuration management for the
// business demography pipeline. It handles loading configuration from
// multiple sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Configuration file (config.yaml, or BD_CONFIG_FILE)
//	2. Environment variables
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BD_* for namespacing:
//
//	BD_LOGGING_LEVEL=debug
//	BD_PATHS_WORKBOOK=data/business_demography.xlsx
//	BD_PIPELINE_YEAR_FROM=2019
//	BD_PIPELINE_YEAR_TO=2023
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which owns every artifact location the pipeline reads or writes:
//
//	paths := config.NewPaths(cfg.Paths)
//	panelPath := paths.GetReportPath(config.PanelCSV)
//
// # Validation
//
// The full configuration is validated at load time with struct tags
// (go-playground/validator); an invalid configuration aborts startup.
package config
