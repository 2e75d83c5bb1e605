// ABOUTME: Repository describes a Neovim plugin hosted on GitHub or GitLab
// ABOUTME: Carries the identifier the engine matches declarations against
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RepositorySource names the hosting forge
type RepositorySource string

const (
	SourceGitHub RepositorySource = "github"
	SourceGitLab RepositorySource = "gitlab"
)

// Repository is a plugin repository discovered by a crawler
type Repository struct {
	Source      RepositorySource `json:"source" yaml:"source"`
	FullName    string           `json:"full_name" yaml:"full_name"`
	Author      string           `json:"author,omitempty" yaml:"author,omitempty"`
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	URL         string           `json:"url,omitempty" yaml:"url,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
	Stars       int              `json:"stars,omitempty" yaml:"stars,omitempty"`
	Branch      string           `json:"branch,omitempty" yaml:"branch,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at" yaml:"updated_at"`
}

// NewRepository builds a GitHub repository from an "owner/name" identifier
func NewRepository(fullName string) (Repository, error) {
	repo := Repository{Source: SourceGitHub, FullName: strings.TrimSpace(fullName)}
	if err := repo.Normalize(); err != nil {
		return Repository{}, err
	}
	return repo, nil
}

// Validate checks the identifier shape
func (r *Repository) Validate() error {
	if r.FullName == "" {
		return errors.New("repository full name cannot be empty")
	}
	parts := strings.Split(r.FullName, "/")
	if len(parts) < 2 || parts[0] == "" || parts[len(parts)-1] == "" {
		return fmt.Errorf("repository full name must look like owner/name, got %q", r.FullName)
	}
	if r.Source != "" && r.Source != SourceGitHub && r.Source != SourceGitLab {
		return fmt.Errorf("unknown repository source %q", r.Source)
	}
	return nil
}

// Normalize validates the repository and fills derivable fields
func (r *Repository) Normalize() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Source == "" {
		r.Source = SourceGitHub
	}
	idx := strings.LastIndex(r.FullName, "/")
	if r.Author == "" {
		r.Author = r.FullName[:idx]
	}
	if r.Name == "" {
		r.Name = r.FullName[idx+1:]
	}
	if r.URL == "" {
		switch r.Source {
		case SourceGitLab:
			r.URL = "https://gitlab.com/" + r.FullName
		default:
			r.URL = "https://github.com/" + r.FullName
		}
	}
	return nil
}

// ModuleName guesses the Lua module a plugin exposes from its repository name
func (r Repository) ModuleName() string {
	name := r.Name
	if name == "" {
		name = r.FullName[strings.LastIndex(r.FullName, "/")+1:]
	}
	for _, suffix := range []string{".nvim", ".lua", ".vim"} {
		if strings.HasSuffix(strings.ToLower(name), suffix) && len(name) > len(suffix) {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}
