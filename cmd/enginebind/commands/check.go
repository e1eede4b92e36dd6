package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/enginebind/errors"
)

var checkExtension bool

// CheckCmd verifies generated bindings are up to date
var CheckCmd = &cobra.Command{
	Use:   "check [ROOT...]",
	Short: "Check if generated bindings are up to date",
	Long: `Regenerate in memory and compare with the files in output.dir.

Exit codes:
  0 - Bindings are up to date
  1 - Bindings are out of date or generation failed

Examples:
  enginebind check
  enginebind check --extension`,
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().BoolVarP(&checkExtension, "extension", "e", false, "Check the extension set")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := openProject(cfg)
	if err != nil {
		return err
	}
	set, setName := p.foundation, "foundation"
	if checkExtension {
		if set, err = p.extensionSet(args); err != nil {
			return err
		}
		setName = "extension"
	}

	out, _, err := p.generateSet(set, setName, checkExtension)
	if err != nil {
		return errors.Wrapf(err, "failed to generate %s set", setName)
	}

	stale, err := staleFiles(cfg.Output.Dir, out.files())
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		pterm.Success.Println("Bindings are up to date")
		return nil
	}

	pterm.Error.Println("Bindings are out of date:")
	for _, f := range stale {
		pterm.Printfln("  - %s", f)
	}
	return errors.New("bindings are out of date - run 'enginebind generate' to update")
}

// staleFiles lists files in dir that are missing or differ from want
func staleFiles(dir string, want map[string][]byte) ([]string, error) {
	var stale []string
	for name, content := range want {
		path := filepath.Join(dir, name)
		have, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			stale = append(stale, path)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		if !bytes.Equal(have, content) {
			stale = append(stale, path)
		}
	}
	sort.Strings(stale)
	return stale, nil
}
