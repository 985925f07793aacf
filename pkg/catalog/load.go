package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var referenceYAML []byte

// LoadError describes a catalog that could not be loaded.
type LoadError struct {
	// File is the path of the catalog file, empty for in-memory data.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return "catalog: " + msg
	}
	return fmt.Sprintf("catalog %s: %s", e.File, msg)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Parse decodes and validates a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := c.Validate(); err != nil {
		return nil, &LoadError{Message: "invalid catalog", Cause: err}
	}
	return &c, nil
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	c, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return c, nil
}

// Reference returns a fresh copy of the built-in reference catalog.
func Reference() *Catalog {
	c, err := Parse(referenceYAML)
	if err != nil {
		panic(fmt.Sprintf("reference catalog: %v", err))
	}
	return c
}

// Marshal encodes a catalog as YAML.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(c)
}
