// Package main is the entry point for the clinicdash CLI tool.
package main

import (
	"github.com/hargabyte/clinicdash/internal/cmd"
)

func main() {
	cmd.Execute()
}
