package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/umputun/podjson/pkg/config"
	"github.com/umputun/podjson/pkg/domain"
)

// usage: schema [output-path] [episodes|config]
func main() {
	outputPath, kind := "episodes.schema.json", "episodes"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		kind = os.Args[2]
	}

	data, err := generate(kind)
	if err != nil {
		log.Fatalf("failed to generate schema: %v", err)
	}

	if err := os.WriteFile(outputPath, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		log.Fatalf("failed to write schema file: %v", err)
	}

	fmt.Printf("Schema generated successfully at %s\n", outputPath)
}

// generate makes indented json schema of the episodes file or of the run configuration
func generate(kind string) ([]byte, error) {
	var schema *jsonschema.Schema
	switch kind {
	case "episodes":
		schema = jsonschema.Reflect(&[]domain.Episode{})
	case "config":
		schema = jsonschema.Reflect(&config.Config{})
	default:
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
