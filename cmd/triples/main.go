package main

import (
	"fmt"
	"os"

	"triples-mcp/cmd/triples/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
