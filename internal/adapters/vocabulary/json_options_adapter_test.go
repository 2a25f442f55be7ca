package vocabulary

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeOptionsFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestLoadPlainStringList(t *testing.T) {
	dir := t.TempDir()
	writeOptionsFile(t, dir, "district", `["Центр", "Подгора"]`)

	a := NewJSONOptionsAdapter(dir)
	got := a.Load(context.Background(), "district")

	if len(got) != 2 || got[0] != "Центр" || got[1] != "Подгора" {
		t.Fatalf("unexpected options %v", got)
	}
}

func TestLoadObjectListWithNameField(t *testing.T) {
	dir := t.TempDir()
	writeOptionsFile(t, dir, "plan", `[{"name": "Новая"}, {"name": "Улучшенная"}, {"id": 3}]`)

	a := NewJSONOptionsAdapter(dir)
	got := a.Load(context.Background(), "plan")

	// Объект без поля name молча пропускается.
	if len(got) != 2 || got[0] != "Новая" || got[1] != "Улучшенная" {
		t.Fatalf("unexpected options %v", got)
	}
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	a := NewJSONOptionsAdapter(t.TempDir())

	if got := a.Load(context.Background(), "nonexistent"); len(got) != 0 {
		t.Fatalf("expected empty vocabulary, got %v", got)
	}
}

func TestLoadCorruptFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	writeOptionsFile(t, dir, "status", `{"not": "a list"`)

	a := NewJSONOptionsAdapter(dir)
	if got := a.Load(context.Background(), "status"); len(got) != 0 {
		t.Fatalf("expected empty vocabulary, got %v", got)
	}
}
