// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Each instance entry corresponds to one configured home location with its
// own GTI account and coordinator.
package config
