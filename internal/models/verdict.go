// ABOUTME: Verdict is the ordered confidence a chunk shows a manager's syntax
// ABOUTME: Serializes as its lowercase name in JSON and YAML
package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Verdict classifies how confidently a chunk demonstrates a plugin manager
type Verdict int

const (
	VerdictLow Verdict = iota
	VerdictMedium
	VerdictHigh
)

var verdictNames = map[Verdict]string{
	VerdictLow:    "low",
	VerdictMedium: "medium",
	VerdictHigh:   "high",
}

func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// ParseVerdict converts a verdict name back to its value
func ParseVerdict(s string) (Verdict, error) {
	for v, name := range verdictNames {
		if name == s {
			return v, nil
		}
	}
	return VerdictLow, fmt.Errorf("unknown verdict %q", s)
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVerdict(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML writes the verdict name
func (v Verdict) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

// UnmarshalYAML reads a verdict name
func (v *Verdict) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseVerdict(node.Value)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
