package snippets

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// SeedFile is the YAML layout accepted by LoadSeedFile.
//
//	snippets:
//	  - title: Connect with oracledb
//	    language: python
//	    category: database
//	    code: |
//	      import oracledb
type SeedFile struct {
	Snippets []models.Snippet `yaml:"snippets"`
}

// LoadSeedFile reads and validates a YAML seed file.
func LoadSeedFile(path string) ([]models.Snippet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML.
func ParseSeed(data []byte) ([]models.Snippet, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	for i, sn := range f.Snippets {
		if sn.Title == "" || sn.Language == "" || sn.Category == "" || sn.Code == "" {
			return nil, fmt.Errorf("snippet %d: title, language, category and code are required", i)
		}
	}
	return f.Snippets, nil
}

//go:embed defaults.yaml
var defaultSeed []byte

// DefaultSnippets returns the built-in sample snippets.
func DefaultSnippets() []models.Snippet {
	out, err := ParseSeed(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("built-in snippets: %v", err))
	}
	return out
}
