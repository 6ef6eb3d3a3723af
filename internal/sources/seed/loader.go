package seed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads the seed resource file
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the given path
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the seed file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read resource file: %w", err)
	}

	return Parse(data)
}

// Parse decodes seed YAML after stripping {{...}} placeholders
func Parse(data []byte) (File, error) {
	data = stripTemplateVariables(data)

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse resource yaml: %w", err)
	}

	return f, nil
}

// stripTemplateVariables replaces placeholders with an empty YAML string
// Example: url: {{DOCS_URL}} -> url: ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
