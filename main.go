// Package main is the entry point for the pacwatch CLI.
//
// pacwatch shows which pending pacman upgrades change what part of their
// version before running the system upgrade.
package main

import "github.com/ajxudir/pacwatch/cmd"

func main() {
	cmd.Execute()
}
