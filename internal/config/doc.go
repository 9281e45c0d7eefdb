// Package config manages the user's persistent configuration: known
// processors and application preferences.
//
// The configuration lives in a YAML file under the OS-appropriate
// config directory (~/.config/lyngctl/config.yaml on Linux and macOS,
// %LOCALAPPDATA%\lyngctl on Windows). Saves are atomic: the registry
// is written to a temporary file and renamed over the old one.
//
// Processors are keyed by a user-chosen name so commands can say
// "lyngctl -d cinema volume -- -32.5" instead of repeating endpoints.
package config
