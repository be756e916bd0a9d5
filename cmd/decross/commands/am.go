package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/decross/am"
	"github.com/teranos/decross/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage decross configuration",
	Long: `am - Manage decross configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (DECROSS_* prefix, e.g. DECROSS_FILTER_NOISE)
3. Project config (./decross.toml, searched upward)
4. User config (~/.decross/decross.toml)
5. System config (/etc/decross/decross.toml)
6. Default values

Examples:
  decross am show                    # Show current configuration
  decross am show --format json      # Show configuration in JSON format
  decross am get filter.thresholdy   # Get specific config value
  decross am validate --file my.toml # Strictly check a config file
  decross am where                   # Show where each value comes from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective decross configuration from all sources, or from one file with --file",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., filter.noise, pipeline.workers)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the effective configuration, or strictly check one file (unknown keys are errors) with --file",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long:  "List the configuration files considered and the source of every setting",
	RunE:  runAmWhere,
}

var (
	configFormat string
	configFile   string
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amShowCmd.Flags().StringVar(&configFile, "file", "", "Show this file over the defaults instead of the cascade")
	amValidateCmd.Flags().StringVar(&configFile, "file", "", "Strictly check this file")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func loadConfig() (*am.Config, error) {
	if configFile != "" {
		return am.LoadFromFile(configFile)
	}
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return renderConfig(cmd.OutOrStdout(), cfg, configFormat)
}

// renderConfig writes cfg to w in the given format
func renderConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# decross configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# decross configuration\n%s", string(data))

	default:
		return errors.WithHint(
			errors.NewInvalidConfigError("unsupported format: %s", format),
			"supported formats: toml, json, yaml")
	}

	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !am.IsSet(key) {
		return errors.Newf("configuration key %q not found", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if configFile != "" {
		res, err := am.CheckFile(configFile)
		if err != nil {
			return errors.Wrap(err, "configuration validation failed")
		}
		fmt.Fprintf(out, "✓ %s is valid\n", res.Path)
		return nil
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(out, "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	intro := am.GetConfigIntrospection()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  [DEFAULT]  Built-in defaults")
	for _, src := range intro.Cascade {
		state := "missing"
		if _, err := os.Stat(src.Path); err == nil {
			state = "found"
		}
		fmt.Fprintf(out, "  [%-8s] %s (%s)\n", src.Source, src.Path, state)
	}
	fmt.Fprintf(out, "  [%-8s] %s_* variables\n", am.SourceEnvironment, am.EnvPrefix)
	fmt.Fprintf(out, "  [%-8s] run flags\n", am.SourceFlag)
	fmt.Fprintln(out)

	for _, s := range intro.Settings {
		fmt.Fprintf(out, "  %-32s = %-10v  %s", s.Key, s.Value, s.Source)
		if s.SourcePath != "" && s.Source != am.SourceDefault {
			fmt.Fprintf(out, " (%s)", s.SourcePath)
		}
		fmt.Fprintln(out)
	}
	return nil
}
