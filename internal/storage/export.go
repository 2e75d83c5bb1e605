// ABOUTME: Writes batch reports and installation maps to disk
// ABOUTME: The file extension selects JSON or YAML encoding
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/plugstore/internal/models"
	"gopkg.in/yaml.v3"
)

// ReportPath returns where the report of runID is written under dir
func ReportPath(dir, runID, format string) string {
	return filepath.Join(dir, "reports", runID+"."+format)
}

// WriteReport stores a batch report under dir/reports, returning its path
func WriteReport(dir string, report *models.Report, format string) (string, error) {
	switch format {
	case "json", "yaml":
	default:
		return "", fmt.Errorf("unsupported report format %q", format)
	}
	path := ReportPath(dir, report.RunID, format)
	if err := writeFile(path, report); err != nil {
		return "", err
	}
	return path, nil
}

// WriteInstallations stores the installation map at path
func WriteInstallations(path string, installs map[string]models.Installation) error {
	return writeFile(path, installs)
}

// Encode writes v to w as JSON or YAML
func Encode(w io.Writer, v interface{}, format string) error {
	switch format {
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q", format)
}

// FormatFromPath picks an encoding from a file extension, defaulting to JSON
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func writeFile(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Encode(file, v, FormatFromPath(path))
}
