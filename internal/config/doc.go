// Package config provides centralized configuration management for the
// seasonality toolchain. It handles loading configuration from multiple
// sources, validation, and a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration files (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SZN_* for namespacing:
//
//	SZN_PATHS_DATA_DIR=data
//	SZN_PATHS_OUTPUT_DIR=out
//	SZN_LOGGING_LEVEL=info
//	SZN_ANALYSIS_WORKERS=8
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
