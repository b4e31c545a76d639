package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/randalmurphal/laneflow/internal/jsonfile"
	"github.com/randalmurphal/laneflow/ticket"
)

// Node kinds understood by the executor. Kind is an open string; unknown
// kinds are a terminal error at execution time, not at load time.
const (
	KindLLM           = "llm"
	KindHumanApproval = "human_approval"
	KindWriteback     = "writeback"
	KindTool          = "tool"
)

// ErrNoNodes indicates a workflow document without any nodes.
var ErrNoNodes = errors.New("workflow has no nodes")

// Trigger declares how a workflow run is started.
type Trigger struct {
	Kind string `json:"kind"`
	Cron string `json:"cron,omitempty"`
	TZ   string `json:"tz,omitempty"`
}

// Edge is a declared but currently unused extension point. Execution is
// always in node index order.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Node is one step in a workflow definition's ordered list.
type Node struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind"`
	Name   string         `json:"name,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// Definition is an immutable workflow document loaded from disk. The node
// order is the execution order.
type Definition struct {
	Version  string    `json:"version,omitempty"`
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name,omitempty"`
	Triggers []Trigger `json:"triggers,omitempty"`
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges,omitempty"`
}

// Dir returns the workflows directory for a team.
func Dir(teamDir string) string {
	return filepath.Join(teamDir, "shared-context", "workflows")
}

// Load reads and parses a workflow document from the team's workflows
// directory. Only the presence of at least one node is validated up front;
// node-level requirements are checked when each node is about to execute,
// so a malformed node later in the list does not block earlier nodes.
func Load(teamDir, file string) (*Definition, error) {
	path := filepath.Join(Dir(teamDir), file)
	var def Definition
	if err := jsonfile.Read(path, &def); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("workflow not found: %s: %w", file, err)
		}
		return nil, fmt.Errorf("load workflow %s: %w", file, err)
	}
	if len(def.Nodes) == 0 {
		return nil, ErrNoNodes
	}
	return &def, nil
}

// DisplayName returns the human-readable name for the workflow, falling
// back to the id and finally to a title-cased form of the filename.
func (d *Definition) DisplayName(file string) string {
	if d.Name != "" {
		return d.Name
	}
	if d.ID != "" {
		return d.ID
	}
	base := strings.TrimSuffix(file, filepath.Ext(file))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(base)
}

// SlugSource returns the identifier used for the ticket filename slug.
func (d *Definition) SlugSource(file string) string {
	if d.ID != "" {
		return d.ID
	}
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// InitialLane returns the lane declared by the first lane-bearing node,
// defaulting to backlog.
func (d *Definition) InitialLane() (ticket.Lane, error) {
	for _, n := range d.Nodes {
		raw, ok := n.Config["lane"]
		if !ok {
			continue
		}
		return ticket.ParseLane(fmt.Sprintf("%v", raw))
	}
	return ticket.Backlog, nil
}

// NodeIndex returns the index of the node with the given id and kind, or
// -1 when no such node exists.
func (d *Definition) NodeIndex(id, kind string) int {
	for i, n := range d.Nodes {
		if n.Kind == kind && n.ID == id {
			return i
		}
	}
	return -1
}

// Label identifies a node in error messages and run labels.
func (n Node) Label() string {
	label := n.Kind + ":" + n.ID
	if n.Name != "" {
		label += " (" + n.Name + ")"
	}
	return label
}
