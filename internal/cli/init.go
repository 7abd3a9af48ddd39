package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thedreamteamconsultancy/workstatus/internal/config"
)

const configHeader = `# workstatus config
# Priority: CLI flag > WORKSTATUS_* env > this file > default.
# repository.type: inmemory | postgres
# redis.addr: set to share the scanner lease between instances
# telemetry.otel_endpoint: e.g. localhost:4318, empty disables tracing

`

// renderDefaultConfig renders config.Default() as YAML.
func renderDefaultConfig() ([]byte, error) {
	body, err := yaml.Marshal(config.Default())
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return append([]byte(configHeader), body...), nil
}

// newInitCmd returns an "init" subcommand that writes a default config file.
func newInitCmd(serviceName string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: fmt.Sprintf(`Write default configuration for %s.

If --config is given the file is written to that path.
Otherwise it is written to ~/.workstatus/%s.yaml.
Fails if the file already exists unless --force is passed.`, serviceName, serviceName),
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest := cfgFile
			if dest == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("home dir: %w", err)
				}
				dest = filepath.Join(home, ".workstatus", serviceName+".yaml")
			}
			if err := writeConfig(dest, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")
	return cmd
}

func writeConfig(dest string, force bool) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if !force {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", dest)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", dest, err)
		}
	}

	content, err := renderDefaultConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
