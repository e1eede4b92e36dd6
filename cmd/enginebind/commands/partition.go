package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/enginebind/errors"
	"github.com/teranos/enginebind/graph"
)

var (
	partitionRoot      string
	partitionExtension bool
	partitionJSON      bool
)

// PartitionCmd prints a generation set
var PartitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Print the foundation generation set",
	Long: `Print the classes reachable from the root in the dependency graph.

With --extension the classes outside the foundation are listed instead.
The listing is sorted; set membership is the only contract.

Examples:
  enginebind partition
  enginebind partition --root Node
  enginebind partition --extension --json`,
	RunE: runPartition,
}

func init() {
	PartitionCmd.Flags().StringVar(&partitionRoot, "root", "", "Partition root (default: api.root)")
	PartitionCmd.Flags().BoolVarP(&partitionExtension, "extension", "e", false, "List classes outside the foundation")
	PartitionCmd.Flags().BoolVar(&partitionJSON, "json", false, "Print the set as a JSON array")
}

func runPartition(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if partitionRoot != "" {
		cfg.API.Root = partitionRoot
	}

	p, err := openProject(cfg)
	if err != nil {
		return err
	}

	set := p.foundation
	if partitionExtension {
		set = set.Complement(p.api)
	}
	names := set.Sorted()

	if partitionJSON {
		data, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal partition")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	return renderPartition(p, set, names)
}

func renderPartition(p *project, set graph.Set, names []string) error {
	componentSize := make(map[string]int)
	for _, comp := range graph.Components(p.graph) {
		for _, n := range comp {
			componentSize[n] = len(comp)
		}
	}

	data := pterm.TableData{{"Class", "Base", "Memory", "Instantiable", "Singleton", "Methods", "Cycle"}}
	for _, name := range names {
		c, _ := p.api.Class(name)
		memory := "manual"
		if c.IsRefcounted() {
			memory = "refcounted"
		}
		data = append(data, []string{
			name,
			c.BaseClass,
			memory,
			yesNo(c.Instantiable),
			yesNo(c.Singleton),
			pterm.Sprint(len(c.Methods)),
			pterm.Sprint(componentSize[name]),
		})
	}

	pterm.DefaultSection.Printfln("%d of %d classes (root %s)", len(set), p.api.Len(), p.cfg.API.Root)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
