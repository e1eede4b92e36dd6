package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/enginebind/am"
	"github.com/teranos/enginebind/bindgen"
	"github.com/teranos/enginebind/errors"
	"github.com/teranos/enginebind/internal/watch"
	"github.com/teranos/enginebind/logger"
)

var (
	generateExtension bool
	generateWatch     bool
	generateOutput    string
	generateMetadata  string
	generateDocs      bool
)

// GenerateCmd generates a whole binding set
var GenerateCmd = &cobra.Command{
	Use:   "generate [ROOT...]",
	Short: "Generate bindings for the foundation or an extension set",
	Long: `Generate Go bindings for one generation set.

Foundation mode (default) binds every class reachable from api.root: the
densely connected core that must be generated together.

Extension mode (--extension) binds classes outside the foundation and
imports the foundation from output.foundation_package. With ROOT arguments
only classes reachable from those roots are bound; without, every class
the foundation does not cover.

Three files are written into the output directory: types.go, traits.go and
method_table.go (plus REFERENCE.md with --docs). Nothing is written when any
class fails.

Examples:
  enginebind generate
  enginebind generate --extension Sprite AnimationPlayer
  enginebind generate --watch -v`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().BoolVarP(&generateExtension, "extension", "e", false, "Bind classes outside the foundation")
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate when the schema, config or metadata change")
	GenerateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory (default: output.dir)")
	GenerateCmd.Flags().StringVar(&generateMetadata, "metadata", "", "Ownership metadata file (default: ownership.metadata)")
	GenerateCmd.Flags().BoolVar(&generateDocs, "docs", false, "Also write REFERENCE.md")
}

// applyFlags overlays command-line flags onto the loaded config
func applyFlags(cmd *cobra.Command, cfg *am.Config) {
	if generateOutput != "" {
		cfg.Output.Dir = generateOutput
	}
	if generateMetadata != "" {
		cfg.Ownership.Metadata = generateMetadata
	}
	if cmd.Flags().Changed("docs") {
		cfg.Output.Docs = generateDocs
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && !generateExtension {
		return errors.New("ROOT arguments require --extension")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	report, err := generateOnce(cfg, generateExtension, args)
	if err != nil {
		return err
	}
	printReport(cfg.Output.Dir, report)

	if !generateWatch {
		return nil
	}
	return watchAndRegenerate(cmd, cfg, args)
}

// generateOnce runs a full pipeline pass and writes the result
func generateOnce(cfg *am.Config, extension bool, roots []string) (bindgen.Report, error) {
	p, err := openProject(cfg)
	if err != nil {
		return bindgen.Report{}, err
	}

	set, setName := p.foundation, "foundation"
	if extension {
		set, err = p.extensionSet(roots)
		if err != nil {
			return bindgen.Report{}, err
		}
		setName = "extension"
	}

	out, report, err := p.generateSet(set, setName, extension)
	if err != nil {
		return bindgen.Report{}, errors.Wrapf(err, "failed to generate %s set", setName)
	}
	if err := writeFiles(cfg.Output.Dir, out.files()); err != nil {
		return bindgen.Report{}, err
	}
	return report, nil
}

func watchAndRegenerate(cmd *cobra.Command, cfg *am.Config, roots []string) error {
	inputs := []string{cfg.API.Schema}
	if ConfigPath != "" {
		inputs = append(inputs, ConfigPath)
	} else if cwd, err := os.Getwd(); err == nil {
		if project := am.FindProjectConfig(cwd); project != "" {
			inputs = append(inputs, project)
		}
	}
	if cfg.Ownership.Metadata != "" {
		inputs = append(inputs, cfg.Ownership.Metadata)
	}

	w, err := watch.New(inputs, func(ctx context.Context, changed []string) error {
		// Config edits take effect on the next run
		if ConfigPath == "" {
			am.Reset()
		}
		next, err := loadConfig()
		if err != nil {
			return err
		}
		applyFlags(cmd, next)
		report, err := generateOnce(next, generateExtension, roots)
		if err != nil {
			return err
		}
		printReport(next.Output.Dir, report)
		return nil
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printfln("Watching %d files, press Ctrl+C to stop", len(inputs))
	logger.Infow("Watching inputs", "files", inputs)
	return w.Run(ctx)
}

func printReport(dir string, r bindgen.Report) {
	pterm.Success.Printfln("Generated %s bindings into %s", r.Set, dir)
	data := pterm.TableData{
		{"Classes", "Methods", "Enums", "Slots", "Skipped", "Time"},
		{
			pterm.Sprint(r.Classes),
			pterm.Sprint(r.Methods),
			pterm.Sprint(r.Enums),
			pterm.Sprint(r.Slots),
			pterm.Sprint(len(r.Skipped)),
			r.Duration.Round(time.Microsecond).String(),
		},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
