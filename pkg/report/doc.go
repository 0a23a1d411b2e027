// Package report aggregates classified upgrades and renders the pre-upgrade
// summary.
//
// Verbose upgrades are merged by their exact (old, new) version pair and
// shown with the changed part of each version highlighted. Every other
// upgrade is counted into a bucket named after its classified component,
// and buckets are printed in the configured group order.
//
// Example output:
//
//	6.6.7.arch1-1 -> 6.7.1.arch1-1: linux
//	not installed -> 2.3.0-1      : python-foo
//	patch (2) glibc-2.39-2 zlib-1.3.1-1
//	pkgrel (1) vim-9.1.0-2
package report
