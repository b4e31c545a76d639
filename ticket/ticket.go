package ticket

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Lane is one of the four fixed pipeline stages a ticket occupies.
type Lane string

// The four lanes, in pipeline order.
const (
	Backlog    Lane = "backlog"
	InProgress Lane = "in-progress"
	Testing    Lane = "testing"
	Done       Lane = "done"
)

// Lanes lists all lanes in pipeline order.
var Lanes = []Lane{Backlog, InProgress, Testing, Done}

// ParseLane validates a lane string.
func ParseLane(s string) (Lane, error) {
	switch Lane(s) {
	case Backlog, InProgress, Testing, Done:
		return Lane(s), nil
	}
	return "", fmt.Errorf("invalid lane: %s", s)
}

// Status returns the canonical Status: line value for a lane.
// The backlog lane maps to "queued"; all others match the lane name.
func (l Lane) Status() string {
	if l == Backlog {
		return "queued"
	}
	return string(l)
}

// WorkDir returns the work directory holding the lane directories.
func WorkDir(teamDir string) string {
	return filepath.Join(teamDir, "work")
}

// Dir returns the directory for a lane within a team.
func Dir(teamDir string, lane Lane) string {
	return filepath.Join(WorkDir(teamDir), string(lane))
}

// numberRe matches the leading 4-digit sequence number of a ticket filename.
var numberRe = regexp.MustCompile(`^(\d{4})-`)

// NextNumber scans all four lane directories for the highest ticket number
// and returns the next one, zero-padded to 4 digits. Returns "0001" when no
// tickets exist. Not safe against concurrent callers racing on the same
// team; callers must serialize run creation per team.
func NextNumber(teamDir string) (string, error) {
	max := 0
	for _, lane := range Lanes {
		entries, err := os.ReadDir(Dir(teamDir, lane))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("scan lane %s: %w", lane, err)
		}
		for _, e := range entries {
			m := numberRe.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n > max {
				max = n
			}
		}
	}
	return fmt.Sprintf("%04d", max+1), nil
}

// Number returns the leading 4-digit sequence number of a ticket path,
// or "" when the filename carries none.
func Number(ticketPath string) string {
	m := numberRe.FindStringSubmatch(filepath.Base(ticketPath))
	if m == nil {
		return ""
	}
	return m[1]
}

// Move relocates a ticket file into the given lane, creating the lane
// directory if absent. The filename never changes; the rename is atomic on
// the same filesystem. After the move the Status: line is rewritten to the
// lane's canonical status. A failure to patch the Status line is logged and
// swallowed: the move is the authoritative state, the Status line is a
// human-readable mirror that may lag.
func Move(teamDir, ticketPath string, to Lane, logger *slog.Logger) (string, error) {
	toDir := Dir(teamDir, to)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return "", fmt.Errorf("create lane dir %s: %w", to, err)
	}

	dest := filepath.Join(toDir, filepath.Base(ticketPath))
	if ticketPath != dest {
		if err := os.Rename(ticketPath, dest); err != nil {
			return "", fmt.Errorf("move ticket to %s: %w", to, err)
		}
	}

	if err := patchStatus(dest, to.Status()); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("ticket status patch failed", "ticket", dest, "lane", to, "error", err)
	}

	return dest, nil
}

var statusLineRe = regexp.MustCompile(`(?m)^Status: .*$`)

func patchStatus(path, status string) error {
	md, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	next := statusLineRe.ReplaceAllString(string(md), "Status: "+status)
	if next == string(md) {
		return nil
	}
	return os.WriteFile(path, []byte(next), 0o644)
}

var (
	ownerFieldRe  = regexp.MustCompile(`(?m)^Owner:\s.*$`)
	statusFieldRe = regexp.MustCompile(`(?m)^Status:\s.*$`)
	headingRe     = regexp.MustCompile(`(?m)^(# .+\n)`)
)

// PatchFields replaces the first Owner: and Status: lines in a ticket
// document. When a field line is absent it is inserted right after the
// first heading. Reapplying with the same values is a no-op by content.
func PatchFields(md, owner, status string) string {
	out := md
	if ownerFieldRe.MatchString(out) {
		out = replaceFirst(out, ownerFieldRe, "Owner: "+owner)
	} else {
		out = insertAfterHeading(out, "Owner: "+owner)
	}
	if statusFieldRe.MatchString(out) {
		out = replaceFirst(out, statusFieldRe, "Status: "+status)
	} else {
		out = insertAfterHeading(out, "Status: "+status)
	}
	return out
}

func replaceFirst(s string, re *regexp.Regexp, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

func insertAfterHeading(s, line string) string {
	loc := headingRe.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[1]] + "\n" + line + "\n" + s[loc[1]:]
}

var slugRe = regexp.MustCompile(`[^a-z0-9-]+`)

// Slug normalizes a workflow identifier into a ticket filename slug.
func Slug(s string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
