package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	configapp "github.com/doeshing/symcheck-go/internal/application/config"
	"github.com/doeshing/symcheck-go/internal/domain"
	configinfra "github.com/doeshing/symcheck-go/internal/infrastructure/config"
)

const (
	envKeyEditor  = "EDITOR"
	defaultEditor = "vi"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(deps *Deps) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect symcheck configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), deps.Loader())
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(deps),
		newConfigPathCommand(deps),
		newConfigGetCommand(deps),
		newConfigEditCommand(deps),
		newConfigValidateCommand(deps),
		newConfigDiffCommand(deps),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (file plus environment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), deps.Loader())
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), deps.Loader().Path())
			return nil
		},
	}
}

// newConfigGetCommand creates the 'config get' subcommand
func newConfigGetCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value (e.g. provider.timeout_ms)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getConfigurationValue(cmd.Context(), cmd.OutOrStdout(), deps.Loader(), args[0])
		},
	}
}

// newConfigEditCommand creates the 'config edit' subcommand
func newConfigEditCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigurationInEditor(cmd.Context(), deps.Loader())
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Loader().Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			if err := configapp.Validate(cfg); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			sel := configapp.ResolveSelection(cfg)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (mode: %s)\n", MsgConfigurationValid, sel.Label())
			return nil
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.Context(), cmd.OutOrStdout(), deps.Loader())
		},
	}
}

// showConfiguration displays the full configuration in YAML format.
// Credentials are never part of the YAML form.
func showConfiguration(ctx context.Context, out io.Writer, loader *configinfra.FileLoader) error {
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprintf(out, "# %s\n", loader.Path())
	fmt.Fprint(out, string(data))
	return nil
}

// getConfigurationValue prints the value at a dotted key path
func getConfigurationValue(ctx context.Context, out io.Writer, loader *configinfra.FileLoader, keyPath string) error {
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	generic, err := convertConfigToGenericMap(cfg)
	if err != nil {
		return err
	}

	value, found := traverseKey(generic, strings.Split(keyPath, "."))
	if !found {
		return fmt.Errorf("key %s not found", keyPath)
	}

	switch v := value.(type) {
	case map[string]interface{}, []interface{}:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
	default:
		fmt.Fprintln(out, v)
	}
	return nil
}

// editConfigurationInEditor opens the configuration file in the user's editor
func editConfigurationInEditor(ctx context.Context, loader *configinfra.FileLoader) error {
	// Load first so a missing file is created from the default.
	if _, err := loader.Load(ctx); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	editorCommand := getEditorCommand()
	cmd := exec.CommandContext(ctx, editorCommand, loader.Path())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editorCommand, err)
	}

	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(ctx context.Context, out io.Writer, loader *configinfra.FileLoader) error {
	currentConfig, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}
	defaultConfig, err := configinfra.DefaultConfig()
	if err != nil {
		return err
	}

	currentConfig.Provider.Credential = ""
	diff := cmp.Diff(defaultConfig, currentConfig)

	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

// Helper functions

// getEditorCommand retrieves the editor command from environment or returns default
func getEditorCommand() string {
	if editor := os.Getenv(envKeyEditor); editor != "" {
		return editor
	}
	return defaultEditor
}

// convertConfigToGenericMap converts domain.Config to a generic map keyed by YAML names
func convertConfigToGenericMap(cfg domain.Config) (interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to generic map: %w", err)
	}

	return generic, nil
}

// traverseKey walks nested maps along path
func traverseKey(data interface{}, path []string) (interface{}, bool) {
	current := data
	for _, key := range path {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
