package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thedreamteamconsultancy/workstatus/internal/config"
)

const serviceName = "workstatus"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          serviceName,
	Short:        "workstatus: task lifecycle and commitment progress engine",
	SilenceUsage: true,
}

// Execute is the entry point called from cmd/workstatus/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: ./workstatus.yaml)")
	rootCmd.PersistentFlags().Bool("dev", false, "development logging")
	rootCmd.PersistentFlags().String("repository", config.RepositoryInMemory, "task store: inmemory | postgres")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	bindFlag("logging.development", rootCmd.PersistentFlags(), "dev")
	bindFlag("repository.type", rootCmd.PersistentFlags(), "repository")
	bindFlag("database.url", rootCmd.PersistentFlags(), "database-url")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(newInitCmd(serviceName))
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.SetConfigName(serviceName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(home, ".workstatus"))
		viper.AddConfigPath("/etc/workstatus")
	}

	viper.SetEnvPrefix("WORKSTATUS")
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "error reading config file:", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintln(os.Stderr, "config:", viper.ConfigFileUsed())
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func bindFlag(viperKey string, fs *pflag.FlagSet, flagName string) {
	if err := viper.BindPFlag(viperKey, fs.Lookup(flagName)); err != nil {
		panic(fmt.Sprintf("bindFlag %q → %q: %v", flagName, viperKey, err))
	}
}
