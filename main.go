// Package main is the entry point for the testcraft CLI.
package main

import "testcraft.dev/pkg/testcraft/cmd"

func main() {
	cmd.Execute()
}
