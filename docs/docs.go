// Package docs holds the OpenAPI description of the HTTP API.
//
// openapi.yaml is produced from the echo routes by apispec and embedded at
// build time; regenerate it after changing a route or payload.
package docs

//go:generate go run github.com/ehabterra/apispec/cmd/apispec@latest -d .. -o openapi.yaml -t users-backend -v 1.0.0 -D "CRUD API over a single users table"

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// Document is the parsed description in both wire formats.
type Document struct {
	Title   string
	Version string
	YAML    []byte
	JSON    []byte
}

type header struct {
	OpenAPI string `yaml:"openapi"`
	Info    struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths map[string]yaml.Node `yaml:"paths"`
}

// Load parses the embedded description and renders its JSON form.
func Load() (*Document, error) {
	return Parse(openAPIYAML)
}

func Parse(raw []byte) (*Document, error) {
	var h header
	if err := yaml.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if h.OpenAPI == "" || len(h.Paths) == 0 {
		return nil, fmt.Errorf("openapi document has no version or paths")
	}

	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	out, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("render openapi document: %w", err)
	}

	return &Document{
		Title:   h.Info.Title,
		Version: h.Info.Version,
		YAML:    raw,
		JSON:    out,
	}, nil
}
