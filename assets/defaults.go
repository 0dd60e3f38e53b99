package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultClassifierYAML contains the embedded default command allow-list.
//
//go:embed defaults/classifier.yaml
var DefaultClassifierYAML []byte
