package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/enginebind/am"
	"github.com/teranos/enginebind/errors"
)

var initForce bool

// InitCmd writes a default config file
var InitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write a default enginebind.toml",
	Long: `Write the built-in defaults to PATH (default: ./enginebind.toml).

An existing file is kept unless --force is given, in which case it is
rotated into .back1..3 first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := am.DefaultConfigFile
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"pass --force to overwrite it; the old file is kept as .back1",
		)
	}

	if err := am.Default().Save(path); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", path)
	return nil
}
