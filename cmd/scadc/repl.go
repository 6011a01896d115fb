package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst/sitter"
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/driver"
	"github.com/openscad-go/scadc/internal/query"
)

// runRepl starts an interactive session: each line is compiled as a
// standalone source and its AST and diagnostics are printed.
func runRepl() {
	rl := liner.NewLiner()
	defer rl.Close()
	rl.SetCtrlCAborts(true)

	historyPath := filepath.Join(os.TempDir(), ".scadc_history")
	if f, err := os.Open(historyPath); err == nil {
		rl.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			rl.WriteHistory(f)
			f.Close()
		}
	}()

	rl.SetCompleter(func(line string) []string {
		prefix := query.PrefixAt(line, len(line))
		if prefix == "" {
			return nil
		}
		head := line[:len(line)-len(prefix)]
		names := query.Complete(nil, prefix)
		out := make([]string, 0, len(names))
		for _, name := range names {
			out = append(out, head+name)
		}
		return out
	})

	d := driver.New(sitter.NewOpenSCADProvider(), driver.WithFilename("<repl>"))
	formatter := diag.NewFormatter(os.Stderr)

	fmt.Println("scadc repl; type exit to leave")
	for {
		input, err := rl.Prompt("scad> ")
		if err != nil {
			// Ctrl-C or EOF.
			fmt.Fprintln(os.Stderr)
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return
		}
		rl.AppendHistory(input)

		result, err := d.Compile(context.Background(), input+"\n")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		formatter.FormatAll(result.Diagnostics, result.Source)
		if result.Source != input+"\n" {
			fmt.Printf("recovered input: %s", result.Source)
		}
		fmt.Print(ast.SprintForest(result.Forest))
	}
}
