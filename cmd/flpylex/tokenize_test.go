package main

import (
	"os"
	"testing"

	"github.com/flangless/flpylex/lexer"
)

func TestRenderTokensMatchesGoldenFunctionDef(t *testing.T) {
	src, err := os.ReadFile("../../testdata/function_def.flpy")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	want, err := os.ReadFile("../../testdata/function_def.tokens")
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	l := lexer.New()
	l.Input(string(src))
	got := renderTokens(l.AllTokens())

	if diff := diffLines(string(want), got); diff != "" {
		t.Fatalf("rendered tokens did not match golden file (-want +got):\n%s", diff)
	}
}

func TestRenderTokensMatchesGoldenWhileLoop(t *testing.T) {
	src, err := os.ReadFile("../../testdata/while_loop.flpy")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	want, err := os.ReadFile("../../testdata/while_loop.tokens")
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	l := lexer.New()
	l.Input(string(src))
	got := renderTokens(l.AllTokens())

	if diff := diffLines(string(want), got); diff != "" {
		t.Fatalf("rendered tokens did not match golden file (-want +got):\n%s", diff)
	}
}

func TestDiffLinesReportsMismatch(t *testing.T) {
	if diff := diffLines("DEF \"def\"\n", "ID \"def\"\n"); diff == "" {
		t.Fatalf("expected a diff for mismatched token streams")
	}
}

func TestDiffLinesIgnoresBlankSeparatorLines(t *testing.T) {
	want := "DEF \"def\"\n\nID \"f\"\n"
	got := "DEF \"def\"\nID \"f\"\n"
	if diff := diffLines(want, got); diff != "" {
		t.Fatalf("blank separator line should not affect comparison, got diff:\n%s", diff)
	}
}

func TestRunCheckLenientWithMaxErrorsSucceeds(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.flpy"
	if err := os.WriteFile(path, []byte("a = 1 $ $ $ $\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	err := runCheck(path, true, 2)
	if err != nil {
		t.Fatalf("unexpected error in lenient mode: %v", err)
	}
}
