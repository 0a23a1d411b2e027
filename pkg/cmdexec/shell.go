package cmdexec

// getDefaultShell returns the shell used when SHELL is not set.
func getDefaultShell() (shell string, args []string) {
	return "sh", []string{"-c"}
}
