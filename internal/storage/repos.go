// ABOUTME: Loads repository lists for batch runs
// ABOUTME: Accepts JSON or YAML arrays of repositories or plain owner/name strings
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/harper/plugstore/internal/models"
	"gopkg.in/yaml.v3"
)

// repoItem accepts either "owner/name" or a full repository object
type repoItem struct {
	models.Repository
}

func (r *repoItem) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Repository = models.Repository{FullName: name}
		return nil
	}
	return json.Unmarshal(data, &r.Repository)
}

func (r *repoItem) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Repository = models.Repository{FullName: node.Value}
		return nil
	}
	return node.Decode(&r.Repository)
}

// ParseRepositories decodes a repository list and normalizes every entry
func ParseRepositories(data []byte, format string) ([]models.Repository, error) {
	var items []repoItem
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to parse YAML repository list: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to parse JSON repository list: %w", err)
		}
	}

	repos := make([]models.Repository, 0, len(items))
	for i, item := range items {
		repo := item.Repository
		if err := repo.Normalize(); err != nil {
			return nil, fmt.Errorf("repository %d: %w", i, err)
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

// LoadRepositories reads a repository list file
func LoadRepositories(path string) ([]models.Repository, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read repository list: %w", err)
	}
	return ParseRepositories(data, FormatFromPath(path))
}
