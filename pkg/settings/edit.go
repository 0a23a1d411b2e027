package settings

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/skratchdot/open-golang/open"

	"github.com/ajxudir/pacwatch/pkg/cmdexec"
	"github.com/ajxudir/pacwatch/pkg/verbose"
)

// openFile hands a file to the desktop's default application.
var openFile = open.Run

// Edit opens the settings file for editing.
//
// $VISUAL, then $EDITOR, is run through the shell attached to the terminal
// and Edit returns when the editor exits. Without either variable the file
// is handed to the desktop opener (xdg-open) instead.
//
// Parameters:
//   - ctx: Context for cancellation
//   - path: settings file to edit
//
// Returns:
//   - error: editor or opener failure
func Edit(ctx context.Context, path string) error {
	if editor := editorCommand(); editor != "" {
		return cmdexec.Attach(ctx, editor+" "+cmdexec.ShellEscape(path))
	}

	verbose.Infof("No $VISUAL or $EDITOR set, opening %s with the default application", path)
	if err := openFile(path); err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	return nil
}

func editorCommand() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return ""
}
