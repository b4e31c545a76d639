package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Binding resolves an approval binding id to a messaging destination.
type Binding struct {
	AgentID   string `yaml:"agentId"`
	Channel   string `yaml:"channel"`
	Target    string `yaml:"target"`
	AccountID string `yaml:"accountId,omitempty"`
}

// Bindings is the approval binding configuration. It is loaded once by
// the caller and passed into the Runner at construction; nothing in this
// package caches reads.
type Bindings struct {
	Bindings []Binding `yaml:"bindings"`

	// Warnings collects non-fatal issues found while loading, such as
	// entries missing a channel or target.
	Warnings []string `yaml:"-"`
}

// LoadBindings reads a YAML bindings file.
func LoadBindings(path string) (*Bindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bindings: %w", err)
	}

	var b Bindings
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bindings %s: %w", path, err)
	}

	for _, entry := range b.Bindings {
		if entry.AgentID == "" || entry.Channel == "" || entry.Target == "" {
			b.Warnings = append(b.Warnings,
				fmt.Sprintf("incomplete binding entry: agentId=%q channel=%q target=%q",
					entry.AgentID, entry.Channel, entry.Target))
		}
	}

	return &b, nil
}

// Resolve returns the binding for an approval binding id. The error names
// the expected configuration shape so operators can fix the file.
func (b *Bindings) Resolve(bindingID string) (Binding, error) {
	for _, entry := range b.Bindings {
		if entry.AgentID == bindingID && entry.Channel != "" && entry.Target != "" {
			return entry, nil
		}
	}
	return Binding{}, fmt.Errorf(
		"missing approval binding: approvalBindingId=%s. Expected a bindings entry like {agentId: %q, channel: ..., target: ...}",
		bindingID, bindingID)
}
