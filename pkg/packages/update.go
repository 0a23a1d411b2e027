package packages

import "github.com/ajxudir/pacwatch/pkg/classify"

// Update is one pending upgrade as seen during a single run.
//
// Fields:
//   - Name: Package name from the pending update list
//   - Old: Installed version, or classify.NotInstalledVersion
//   - New: Version that will be installed
//   - Component: Classification result; classify.Unknown when no rule matched
//   - Provider: Installed package that provides Name, set only when Name
//     itself was not installed
type Update struct {
	Name      string
	Old       string
	New       string
	Component classify.Component
	Provider  string
}

// NotInstalled reports whether the package was absent under its own name.
func (u Update) NotInstalled() bool {
	return u.Old == classify.NotInstalledVersion
}
