// Package config loads fwmaker's settings.
//
// Settings are layered with koanf, each layer overriding the previous one:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/fwmaker/config.toml
//  3. the project file, fwmaker.toml or .fwmaker.toml in the project directory
//  4. an explicit file, TOML or YAML by extension
//  5. FWMAKER_SECTION__KEY environment variables
//  6. overrides given by the caller, keyed "section.key"
//
// Lists are replaced, not appended to, by later layers.
package config
