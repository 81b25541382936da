// Package config loads the nosh application config from
// ~/.config/nosh/config.toml. Every field has a sensible default; a
// missing file is not an error.
package config
