package assessment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCatalog_EmptyPathUsesDefaults(t *testing.T) {
	bank, catalog, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if bank.Len() != 15 {
		t.Errorf("bank.Len() = %d, want 15", bank.Len())
	}
	if catalog[Future].Label != "The Visionary" {
		t.Errorf("Future label = %q, want The Visionary", catalog[Future].Label)
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestParseCatalog_OverridesLabelOnly(t *testing.T) {
	data := []byte(`
archetypes:
  past:
    label: "The Archivist"
`)
	bank, catalog, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if bank.Len() != 15 {
		t.Errorf("questions should keep defaults, got %d", bank.Len())
	}
	past := catalog[Past]
	if past.Label != "The Archivist" {
		t.Errorf("Past label = %q, want The Archivist", past.Label)
	}
	if past.Summary != DefaultCatalog()[Past].Summary {
		t.Error("Past summary should keep the default")
	}
	if len(past.Tips) == 0 {
		t.Error("Past tips should keep the default")
	}
}

func TestParseCatalog_CustomQuestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
questions:
  - {id: A, text: "Yesterday matters", category: Past}
  - {id: B, text: "Today matters", category: Present}
  - {id: C, text: "Tomorrow matters", category: Future}
  - {id: D, text: "Plans matter", category: future}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	bank, _, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if bank.Len() != 4 {
		t.Errorf("bank.Len() = %d, want 4", bank.Len())
	}
	if bank.Count(Future) != 2 {
		t.Errorf("Count(Future) = %d, want 2", bank.Count(Future))
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name, yaml, want string
	}{
		{"bad yaml", "questions: [", "parsing catalog"},
		{"bad archetype key", "archetypes:\n  Someday:\n    label: x\n", "unknown category"},
		{"bank missing category", "questions:\n  - {id: A, text: x, category: Past}\n", "has no questions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseCatalog([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}
