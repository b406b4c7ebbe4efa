package config

import (
	"strings"
	"testing"
)

func TestSetTOMLValueReplacesTopLevel(t *testing.T) {
	input := strings.TrimSpace(`
# where files are browsed
working_dir = "/old"

[theme]
base = "dark"
`)
	got, changed := SetTOMLValue(input, "working_dir", "/new")
	if !changed {
		t.Fatal("expected change")
	}
	if strings.Contains(got, `"/old"`) || !strings.Contains(got, `working_dir = "/new"`) {
		t.Fatalf("value not replaced:\n%s", got)
	}
	if !strings.Contains(got, "# where files are browsed") {
		t.Fatalf("comment lost:\n%s", got)
	}
}

func TestSetTOMLValueInsertsTopLevelBeforeSections(t *testing.T) {
	input := "[theme]\nbase = \"dark\"\n"
	got, _ := SetTOMLValue(input, "working_dir", "/w")
	idxKey := strings.Index(got, "working_dir")
	idxSection := strings.Index(got, "[theme]")
	if idxKey < 0 || idxKey > idxSection {
		t.Fatalf("top-level key must precede sections:\n%s", got)
	}
}

func TestSetTOMLValueSection(t *testing.T) {
	input := strings.TrimSpace(`
[theme]
base = "dark"

[tools]
lint = ["rumdl", "check"]
`)
	got, _ := SetTOMLValue(input, "theme.accent", "#ff0000")
	theme := got[:strings.Index(got, "[tools]")]
	if !strings.Contains(theme, `accent = "#ff0000"`) {
		t.Fatalf("key not added to its section:\n%s", got)
	}

	got, _ = SetTOMLValue(input, "tools.lint", []string{"markdownlint"})
	if !strings.Contains(got, `lint = ["markdownlint"]`) || strings.Contains(got, "rumdl") {
		t.Fatalf("list not replaced:\n%s", got)
	}

	got, _ = SetTOMLValue(input, "preview.line_height", 2)
	if !strings.HasSuffix(got, "[preview]\nline_height = 2") {
		t.Fatalf("section not appended:\n%s", got)
	}
}

func TestSetTOMLValueUnchanged(t *testing.T) {
	input := "working_dir = \"/w\"\n"
	got, changed := SetTOMLValue(input, "working_dir", "/w")
	if changed || got != input {
		t.Fatalf("expected no change, got %v:\n%s", changed, got)
	}
}

func TestUpdateTOMLAddsMissingKeys(t *testing.T) {
	input := "# mine\n[theme]\nbase = \"light\"\n"
	got, changed, err := UpdateTOML(input)
	if err != nil || !changed {
		t.Fatalf("UpdateTOML = %v, %v", changed, err)
	}
	if !strings.Contains(got, "# mine") || !strings.Contains(got, `base = "light"`) {
		t.Fatalf("existing content lost:\n%s", got)
	}
	for _, want := range []string{"working_dir = ", "[tools]", `lint = ["rumdl", "check"]`, "line_height = 1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q:\n%s", want, got)
		}
	}

	again, changed, err := UpdateTOML(got)
	if err != nil || changed || again != got {
		t.Fatalf("second update should be a no-op: %v %v", changed, err)
	}

	if _, _, err := UpdateTOML("theme = [\n"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRenderDefaultTOMLLayout(t *testing.T) {
	got := RenderDefaultTOML()
	idxTop := strings.Index(got, "\nworking_dir = ")
	idxTheme := strings.Index(got, "\n[theme]\n")
	idxTools := strings.Index(got, "\n[tools]\n")
	if idxTop < 0 || idxTheme < idxTop || idxTools < idxTheme {
		t.Fatalf("unexpected table order:\n%s", got)
	}
	if strings.Count(got, "[theme]") != 1 {
		t.Fatalf("section emitted more than once:\n%s", got)
	}
	if !strings.Contains(got, "# Base palette: dark or light\nbase = \"dark\"\n") {
		t.Fatalf("comment not attached to its key:\n%s", got)
	}
}

func TestSplitKey(t *testing.T) {
	if s, k := splitKey("tools.lint"); s != "tools" || k != "lint" {
		t.Fatalf("splitKey(tools.lint) = %q, %q", s, k)
	}
	if s, k := splitKey("data_dir"); s != "" || k != "data_dir" {
		t.Fatalf("splitKey(data_dir) = %q, %q", s, k)
	}
}
