// Package classify decides how significant a version change is.
//
// A Classifier holds an ordered list of rules. Each rule is a pattern whose
// capture groups are mapped, by position, to component names such as epoch,
// major or pkgrel:
//
//	c, err := classify.Compile([]classify.Rule{{
//	    Pattern: `(?:(\d+):)?(\d+)\.(\d+)\.(\d+)(.*)-(\d+)`,
//	    Parts:   []classify.Component{"epoch", "major", "minor", "patch", "identifier", "pkgrel"},
//	}})
//	component, changed := c.Classify("1.2.3-1", "1.2.4-1") // "patch", true
//
// The first rule that matches both versions in full decides the result; later
// rules are never consulted, even if the deciding rule finds no difference.
package classify
