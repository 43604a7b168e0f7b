// Package storage reads and writes collection documents and environments.
// Documents are exchanged as JSON; files with a .yaml or .yml extension are
// converted on the way in and out.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// IsYAML reports whether path names a YAML file.
func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isDocument(path string) bool {
	return IsYAML(path) || strings.EqualFold(filepath.Ext(path), ".json")
}

// LoadDocument reads a document and returns it as JSON.
func LoadDocument(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if !IsYAML(filePath) {
		return data, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML document: %w", err)
	}
	return out, nil
}

// SaveDocument writes a JSON document to filePath, as YAML when the path
// has a YAML extension. JSON output is indented when pretty is set.
func SaveDocument(data []byte, filePath string, pretty bool) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := Format(data, filePath, pretty)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, out, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Format renders a JSON document the way SaveDocument writes it to
// filePath.
func Format(data []byte, filePath string, pretty bool) ([]byte, error) {
	if IsYAML(filePath) {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return out, nil
	}

	if !pretty {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent document: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ListDocuments lists the JSON and YAML files under dir, relative to it.
func ListDocuments(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isDocument(path) {
			relPath, _ := filepath.Rel(dir, path)
			files = append(files, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return files, nil
}
