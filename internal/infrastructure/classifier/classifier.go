// Package classifier routes proposed commands to captured or interactive execution.
//
// The decision is a string-prefix heuristic over the whole command line. It decides where a
// command's output goes; it is not a security control and must not be treated as one.
package classifier

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/anyonecancode/acc/assets"
	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/pkg/filesystem"
	"github.com/anyonecancode/acc/internal/ports"
)

// PrefixClassifier implements the CommandClassifier port.
type PrefixClassifier struct {
	prefixes []SimplePrefix
	source   string
}

// SimplePrefix is one allow-listed command prefix.
type SimplePrefix struct {
	Prefix string `yaml:"prefix"`
	Note   string `yaml:"note"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		SimplePrefixes []SimplePrefix `yaml:"simple_prefixes"`
	} `yaml:"rules"`
}

// New loads the allow-list from path, or the embedded defaults when the file is missing.
func New(path string) (*PrefixClassifier, error) {
	resolved := filesystem.ExpandPath(path)
	rules, source, err := loadRules(resolved)
	if err != nil {
		return nil, fmt.Errorf("load classifier rules %s: %w", resolved, err)
	}

	var prefixes []SimplePrefix
	for _, p := range rules.Rules.SimplePrefixes {
		if strings.TrimSpace(p.Prefix) == "" {
			continue
		}
		prefixes = append(prefixes, p)
	}
	return &PrefixClassifier{prefixes: prefixes, source: source}, nil
}

// NewWithPrefixes builds a classifier from an explicit list.
func NewWithPrefixes(prefixes ...string) *PrefixClassifier {
	c := &PrefixClassifier{source: "inline"}
	for _, p := range prefixes {
		c.prefixes = append(c.prefixes, SimplePrefix{Prefix: p})
	}
	return c
}

// Classify implements ports.CommandClassifier.
func (c *PrefixClassifier) Classify(command string) domain.CommandClass {
	return c.Explain(command).Class
}

// Explain returns the decision together with the prefix that matched, if any.
func (c *PrefixClassifier) Explain(command string) domain.Classification {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" || c == nil {
		return domain.Classification{Class: domain.ClassComplex}
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(trimmed, p.Prefix) {
			return domain.Classification{Class: domain.ClassSimple, MatchedPrefix: p.Prefix}
		}
	}
	return domain.Classification{Class: domain.ClassComplex}
}

// Prefixes returns the active allow-list.
func (c *PrefixClassifier) Prefixes() []SimplePrefix {
	return append([]SimplePrefix(nil), c.prefixes...)
}

// Source describes where the rules came from ("defaults", "inline" or a file path).
func (c *PrefixClassifier) Source() string {
	return c.source
}

func loadRules(path string) (RulesFile, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		rules, err := defaultRules()
		return rules, "defaults", err
	}

	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, "", err
	}
	if len(rules.Rules.SimplePrefixes) == 0 {
		rules, err := defaultRules()
		return rules, "defaults", err
	}
	return rules, path, nil
}

func defaultRules() (RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(assets.DefaultClassifierYAML, &rules); err != nil {
		return RulesFile{}, err
	}
	return rules, nil
}

var _ ports.CommandClassifier = (*PrefixClassifier)(nil)
