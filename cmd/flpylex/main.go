// Command flpylex is the reference CLI harness for the Fangless Python
// lexical front end: a golden-file tokenizer, a diagnostics checker, a
// symbol table dump, and a stdio language server.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	glspServer "github.com/tliron/glsp/server"

	"github.com/flangless/flpylex/invariants"
	"github.com/flangless/flpylex/lexer"
	"github.com/flangless/flpylex/lspserver"
)

const (
	name    = "flpylex"
	version = "0.1.0"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     name,
		Short:   "Lexical front end for Fangless Python",
		Version: version,
	}

	var jsonOutput, lenient bool
	var maxErrors int

	tokenizeCmd := &cobra.Command{
		Use:   "tokenize <source_path> <expected_tokens_path>",
		Short: "Lex source_path and diff its token stream against a golden file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(args[0], args[1])
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check <source_path>",
		Short: "Lex source_path and report every diagnostic and invariant violation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0], lenient, maxErrors)
		},
	}
	checkCmd.Flags().BoolVar(&lenient, "lenient", false, "exit 0 even if diagnostics were recorded")
	checkCmd.Flags().IntVar(&maxErrors, "max-errors", 0, "collapse diagnostics past this count into one \"too many errors\" entry (0 = unlimited)")

	symbolsCmd := &cobra.Command{
		Use:   "symbols <source_path>",
		Short: "List the symbol table built while lexing source_path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(args[0], jsonOutput)
		},
	}
	symbolsCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the symbol table as JSON")

	lspCmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			runLSP()
			return nil
		},
	}

	root.AddCommand(tokenizeCmd, checkCmd, symbolsCmd, lspCmd)
	return root
}

func runTokenize(sourcePath, expectedPath string) error {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "reading source %s", sourcePath)
	}

	l := lexer.New()
	l.Input(string(src))
	got := renderTokens(l.AllTokens())

	want, err := os.ReadFile(expectedPath)
	if err != nil {
		return errors.Wrapf(err, "reading expected tokens %s", expectedPath)
	}

	if diff := diffLines(string(want), got); diff != "" {
		fmt.Fprintln(os.Stderr, diff)
		return fmt.Errorf("token stream did not match %s", expectedPath)
	}

	fmt.Println("OK")
	return nil
}

func runCheck(sourcePath string, lenient bool, maxErrors int) error {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "reading source %s", sourcePath)
	}

	l := lexer.New()
	l.Input(string(src))
	l.Errors().SetMaxErrors(maxErrors)
	toks := l.AllTokens()
	invariants.Check(toks, l.SymbolTable(), l.Errors())

	entries := l.Errors().Entries()
	for _, e := range entries {
		fmt.Fprintln(os.Stderr, e.String())
	}

	if l.Errors().Failed() && !lenient {
		return fmt.Errorf("%d diagnostic(s) recorded", len(entries))
	}
	fmt.Printf("OK: %d token(s), %d diagnostic(s)\n", len(toks), len(entries))
	return nil
}

func runSymbols(sourcePath string, jsonOutput bool) error {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "reading source %s", sourcePath)
	}

	l := lexer.New()
	l.Input(string(src))
	l.AllTokens()

	if jsonOutput {
		data, err := l.SymbolTable().MarshalJSON()
		if err != nil {
			return errors.Wrap(err, "marshaling symbol table")
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(l.SymbolTable().Dump())
	return nil
}

func runLSP() {
	commonlog.Configure(1, nil)
	handler, _ := lspserver.NewHandler(name, version)
	s := glspServer.NewServer(handler, name, false)
	s.RunStdio()
}
