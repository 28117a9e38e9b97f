// Package main provides the entry point stub for svesim.
// svesim is a bit-accurate functional simulator for a subset of the
// SVE instruction set.
//
// For the full CLI, use: go run ./cmd/svesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("svesim - SVE subset simulator")
	fmt.Println("")
	fmt.Println("Usage: svesim <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run      Execute a flat program image")
	fmt.Println("  decode   Disassemble instruction words")
	fmt.Println("  verify   Check golden encoding tables")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/svesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/svesim' instead.")
	}
}
