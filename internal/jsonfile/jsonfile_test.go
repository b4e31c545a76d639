package jsonfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	if err := Write(path, &doc{Name: "run", Count: 2}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got doc
	if err := Read(path, &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Name != "run" || got.Count != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestWrite_IndentedWithTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := Write(path, &doc{Name: "run"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "\n  \"name\"") {
		t.Errorf("not indented:\n%s", s)
	}
	if !strings.HasSuffix(s, "\n") {
		t.Error("missing trailing newline")
	}
}

func TestWrite_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := Write(path, &doc{Name: "old"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(path, &doc{Name: "new"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got doc
	if err := Read(path, &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Name != "new" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Write(filepath.Join(dir, "doc.json"), &doc{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "doc.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory contents = %v", names)
	}
}

func TestRead_Missing(t *testing.T) {
	var got doc
	err := Read(filepath.Join(t.TempDir(), "nope.json"), &got)
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
