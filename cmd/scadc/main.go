package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst/sitter"
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/driver"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scadc <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  check <file>    Parse and check an OpenSCAD source file\n")
		fmt.Fprintf(os.Stderr, "  ast <file>      Print the AST of an OpenSCAD source file\n")
		fmt.Fprintf(os.Stderr, "  fix <file>      Apply recovery patches and print the result\n")
		fmt.Fprintf(os.Stderr, "  repl            Start an interactive session\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "check":
		runCheck(args)
	case "ast":
		runAST(args)
	case "fix":
		runFix(args)
	case "repl":
		runRepl()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

// compileFile runs the pipeline on one file and returns the result along
// with the original source.
func compileFile(path string, retries int) (*driver.Result, string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	d := driver.New(sitter.NewOpenSCADProvider(),
		driver.WithFilename(path),
		driver.WithMaxRetries(retries),
	)
	result, err := d.Compile(context.Background(), string(source))
	if err != nil {
		return nil, "", err
	}
	return result, string(source), nil
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	retries := fs.Int("max-retries", driver.DefaultMaxRetries, "recovery pass budget")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: scadc check <file>\n")
		os.Exit(1)
	}

	result, _, err := compileFile(fs.Arg(0), *retries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scadc: %v\n", err)
		os.Exit(1)
	}

	formatter := diag.NewFormatter(os.Stderr)
	formatter.FormatAll(result.Diagnostics, result.Source)

	if len(result.Recovered) > 0 {
		fmt.Fprintf(os.Stderr, "recovered from %d error(s) in %d pass(es)\n",
			len(result.Recovered), result.Passes)
	}
	if result.HasErrors() {
		os.Exit(1)
	}
}

func runAST(args []string) {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	retries := fs.Int("max-retries", driver.DefaultMaxRetries, "recovery pass budget")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: scadc ast <file>\n")
		os.Exit(1)
	}

	result, _, err := compileFile(fs.Arg(0), *retries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scadc: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(ast.SprintForest(result.Forest))

	formatter := diag.NewFormatter(os.Stderr)
	formatter.FormatAll(result.Diagnostics, result.Source)
	if result.HasErrors() {
		os.Exit(1)
	}
}

func runFix(args []string) {
	fs := flag.NewFlagSet("fix", flag.ExitOnError)
	retries := fs.Int("max-retries", driver.DefaultMaxRetries, "recovery pass budget")
	write := fs.Bool("w", false, "write the patched source back to the file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: scadc fix [-w] <file>\n")
		os.Exit(1)
	}
	path := fs.Arg(0)

	result, original, err := compileFile(path, *retries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scadc: %v\n", err)
		os.Exit(1)
	}

	if result.HasErrors() {
		fmt.Fprintf(os.Stderr, "scadc: %s has errors recovery could not patch\n", path)
		diag.NewFormatter(os.Stderr).FormatAll(result.Diagnostics, result.Source)
		os.Exit(1)
	}

	if result.Source == original {
		fmt.Fprintf(os.Stderr, "scadc: %s is already clean\n", path)
		return
	}

	if *write {
		if err := os.WriteFile(path, []byte(result.Source), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "scadc: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "scadc: patched %s (%d fix(es))\n", path, len(result.Recovered))
		return
	}
	fmt.Print(result.Source)
}
