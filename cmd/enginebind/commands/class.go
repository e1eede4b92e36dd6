package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/enginebind/errors"
)

var classOutput string

// ClassCmd generates one class on demand
var ClassCmd = &cobra.Command{
	Use:   "class NAME",
	Short: "Generate bindings for a single class",
	Long: `Generate bindings for one class against the foundation.

A class the foundation already binds produces no output. Otherwise the
class is written as its own package importing output.foundation_package,
with a method table holding only its slots.

Examples:
  enginebind class Sprite -o sprite/`,
	Args: cobra.ExactArgs(1),
	RunE: runClass,
}

func init() {
	ClassCmd.Flags().StringVarP(&classOutput, "output", "o", "", "Output directory (default: output.dir)")
}

func runClass(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if classOutput != "" {
		cfg.Output.Dir = classOutput
	}

	p, err := openProject(cfg)
	if err != nil {
		return err
	}

	out, report, err := p.generateClass(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to generate class %s", args[0])
	}
	if len(report.Skipped) > 0 {
		pterm.Info.Printfln("%s is bound by the foundation; nothing to generate", args[0])
		return nil
	}
	if err := writeFiles(cfg.Output.Dir, out.files()); err != nil {
		return err
	}
	printReport(cfg.Output.Dir, report)
	return nil
}
