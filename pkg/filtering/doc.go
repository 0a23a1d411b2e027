// Package filtering provides the package-name matchers used by verbose rules
// and the anchored pattern compiler shared with the version classifier.
//
// Name Matching:
//
// A verbose rule matches a package by an explicit name set or by a pattern
// over the whole name:
//
//	m, err := filtering.NewRuleMatcher([]string{"linux", "linux-lts"}, `linux-.*`)
//	m.Match("linux-zen") // true
//	m.Match("zlinux")    // false: patterns match the full name
//
// Full-string Patterns:
//
// Patterns from settings are always matched against the entire string:
//
//	re, err := filtering.CompileFull(`(\d+)\.(\d+)-(\d+)`)
package filtering
