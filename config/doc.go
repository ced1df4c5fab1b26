// Package config loads and validates mediavault configuration from
// config files, environment variables and CLI flags.
//
// Precedence (highest to lowest): flags > environment (MEDIAVAULT_
// prefix) > config files > defaults. Environment keys replace dots
// with underscores, so metadata.backend becomes MEDIAVAULT_METADATA_BACKEND.
package config
