package data

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// schemaName maps a dataset to its schema: the directory for most datasets,
// the file name for the location tables.
func schemaName(dataset string) string {
	if dir := path.Dir(dataset); dir != "location" {
		return dir
	}
	return path.Base(dataset)
}

func compileSchemas() (map[string]*gojsonschema.Schema, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	schemas := make(map[string]*gojsonschema.Schema, len(entries))
	for _, e := range entries {
		raw, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		schemas[strings.TrimSuffix(e.Name(), ".json")] = schema
	}
	return schemas, nil
}
