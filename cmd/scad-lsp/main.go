package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/openscad-go/scadc/internal/cst/sitter"
	"github.com/openscad-go/scadc/internal/lsp"
)

func main() {
	// The protocol owns stdout; everything else goes to stderr.
	log.SetOutput(os.Stderr)
	log.SetPrefix("scad-lsp: ")

	server := lsp.NewServer(sitter.NewOpenSCADProvider())
	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "scad-lsp: %v\n", err)
		os.Exit(1)
	}
}
