// Package config provides configuration management for Crosswind.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CROSSWIND_SECTION_FIELD.
// For example:
//
//   - CROSSWIND_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - CROSSWIND_GEMINI_API_KEY overrides gemini.api_key
//   - CROSSWIND_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// The bare GEMINI_API_KEY variable is also honored so deployments that
// already export it keep working. Environment variables always take
// precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// When watch is enabled the FileWatcher re-reads the file after each
// change and hands the validated result to the running service. A file
// that fails validation is rejected and the previous configuration
// stays active.
package config
