package workflow

import (
	"fmt"

	"github.com/randalmurphal/laneflow/ticket"
)

// ConfigError reports a missing or invalid required config key on a node.
// Configuration errors are fatal to the run and never retried.
type ConfigError struct {
	Label string
	Key   string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("node %s invalid config.%s: %v", e.Label, e.Key, e.Cause)
	}
	return fmt.Sprintf("node %s missing config.%s", e.Label, e.Key)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// UnknownKindError reports a node kind the executor does not understand.
type UnknownKindError struct {
	Kind  string
	Label string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unsupported node kind: %s (%s)", e.Kind, e.Label)
}

// Config is the resolved, typed configuration of a node. Exactly one of
// LLMConfig, HumanApprovalConfig, WritebackConfig or ToolConfig is
// returned by Node.Resolve for a known kind.
type Config interface {
	// NodeLane returns the lane the ticket must be in while the node
	// executes, when the node declares one.
	NodeLane() (ticket.Lane, bool)
}

type laneConfig struct {
	lane    ticket.Lane
	hasLane bool
}

func (c laneConfig) NodeLane() (ticket.Lane, bool) { return c.lane, c.hasLane }

// LLMConfig configures a generation node.
type LLMConfig struct {
	laneConfig
	AgentID            string
	PromptTemplatePath string
	OutputPath         string
}

// HumanApprovalConfig configures an approval gate.
type HumanApprovalConfig struct {
	laneConfig
	AgentID           string
	ApprovalBindingID string
}

// WritebackConfig configures a write-back node.
type WritebackConfig struct {
	laneConfig
	AgentID        string
	WritebackPaths []string
}

// ToolConfig configures a tool node, currently an integration stub.
type ToolConfig struct {
	laneConfig
}

// Resolve validates the node's loose config map into its typed variant.
// Validation happens here, when the node is about to execute, so that a
// malformed node never blocks the nodes declared before it.
func (n Node) Resolve() (Config, error) {
	lc, err := n.resolveLane()
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case KindLLM:
		cfg := LLMConfig{laneConfig: lc}
		if cfg.AgentID, err = n.requireString("agentId"); err != nil {
			return nil, err
		}
		if cfg.PromptTemplatePath, err = n.requireString("promptTemplatePath"); err != nil {
			return nil, err
		}
		if cfg.OutputPath, err = n.requireString("outputPath"); err != nil {
			return nil, err
		}
		return cfg, nil

	case KindHumanApproval:
		cfg := HumanApprovalConfig{laneConfig: lc}
		if cfg.AgentID, err = n.requireString("agentId"); err != nil {
			return nil, err
		}
		if cfg.ApprovalBindingID, err = n.requireString("approvalBindingId"); err != nil {
			return nil, err
		}
		return cfg, nil

	case KindWriteback:
		cfg := WritebackConfig{laneConfig: lc}
		if cfg.AgentID, err = n.requireString("agentId"); err != nil {
			return nil, err
		}
		paths, ok := n.Config["writebackPaths"].([]any)
		if !ok || len(paths) == 0 {
			return nil, &ConfigError{Label: n.Label(), Key: "writebackPaths[]"}
		}
		for _, p := range paths {
			cfg.WritebackPaths = append(cfg.WritebackPaths, fmt.Sprintf("%v", p))
		}
		return cfg, nil

	case KindTool:
		return ToolConfig{laneConfig: lc}, nil
	}

	return nil, &UnknownKindError{Kind: n.Kind, Label: n.Label()}
}

func (n Node) resolveLane() (laneConfig, error) {
	raw, ok := n.Config["lane"]
	if !ok {
		return laneConfig{}, nil
	}
	lane, err := ticket.ParseLane(fmt.Sprintf("%v", raw))
	if err != nil {
		return laneConfig{}, &ConfigError{Label: n.Label(), Key: "lane", Cause: err}
	}
	return laneConfig{lane: lane, hasLane: true}, nil
}

func (n Node) requireString(key string) (string, error) {
	raw, ok := n.Config[key]
	if !ok {
		return "", &ConfigError{Label: n.Label(), Key: key}
	}
	s := fmt.Sprintf("%v", raw)
	if s == "" {
		return "", &ConfigError{Label: n.Label(), Key: key}
	}
	return s, nil
}
