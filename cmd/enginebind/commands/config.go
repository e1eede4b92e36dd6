package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/enginebind/am"
	"github.com/teranos/enginebind/errors"
)

// ConfigCmd inspects the effective configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show configuration and where each value comes from.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (ENGINEBIND_* prefix, e.g. ENGINEBIND_OUTPUT_DIR)
3. Project config (nearest enginebind.toml walking up)
4. User config (~/.enginebind/enginebind.toml)
5. System config (/etc/enginebind/enginebind.toml)
6. Default values`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	RunE:  runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "List every setting with its source",
	RunE:  runConfigWhere,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		pterm.Success.Println("Configuration is valid")
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configWhereCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config to TOML")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# enginebind configuration\n%s", data)
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	if ConfigPath != "" {
		pterm.Info.Printfln("Using %s only (--config)", ConfigPath)
		return nil
	}
	if _, err := am.Load(); err != nil {
		return err
	}

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range am.GetConfigIntrospection() {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
