package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/studiowebux/blogdesk/internal/keybinds"
)

// Keybinds checks the keybindings file at path, or writes the defaults there
// when export is set. An existing file is only replaced with force.
func Keybinds(out io.Writer, path string, export, force bool) error {
	if export {
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := keybinds.SaveConfig(keybinds.ExportDefaults(), path); err != nil {
			return fmt.Errorf("failed to write keybindings: %w", err)
		}
		fmt.Fprintf(out, "Default keybindings written to %s\n", path)
		return nil
	}

	cfg, err := keybinds.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "No %s, using the default keybindings.\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	result := keybinds.NewValidator().ValidateConfig(cfg)
	if !result.HasErrors() && !result.HasWarnings() {
		fmt.Fprintf(out, "%s is valid.\n", path)
		return nil
	}
	fmt.Fprint(out, result.String())
	if result.HasErrors() {
		return fmt.Errorf("invalid keybindings in %s", path)
	}
	return nil
}
