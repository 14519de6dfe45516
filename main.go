// Package main is the entry point for the pycforge CLI.
package main

import "pycforge.dev/pkg/pycforge/cmd"

func main() {
	cmd.Execute()
}
