// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Several fleets may be configured; SelectFleet picks one by name and
// merges its source overrides over the top-level source.
package config
