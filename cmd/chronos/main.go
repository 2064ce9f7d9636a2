package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/chronos/internal/config"
	"github.com/pders01/chronos/internal/debuglog"
	"github.com/pders01/chronos/internal/render"
	"github.com/pders01/chronos/internal/search"
	"github.com/pders01/chronos/internal/tui"
	"github.com/pders01/chronos/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath  string
	endpointURL string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:           "chronos",
	Short:         "Search cluster logs from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := setupLogging(cfg); err != nil {
			return err
		}
		defer debuglog.Close()

		client, formatter, err := newClient(cfg)
		if err != nil {
			return err
		}

		tui.ApplyColors(cfg.UI.Colors)
		app := tui.NewApp(client, cfg, formatter)
		p := tea.NewProgram(app, tea.WithAltScreen())

		_, err = p.Run()
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chronos %s\n", Version)
		fmt.Println("Cluster log search client")
		fmt.Println("github.com/pders01/chronos")
	},
}

var bannerCmd = &cobra.Command{
	Use:   "banner",
	Short: "Show the startup banner",
	Run: func(cmd *cobra.Command, args []string) {
		tui.ShowBanner(Version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		configFile := config.DefaultPath()
		if configPath != "" {
			configFile = configPath
		}

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&endpointURL, "endpoint", "", "Search service URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, bannerCmd, configCmd, queryCmd, serveCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if endpointURL != "" {
		cfg.Endpoint.URL = endpointURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	normalized, err := validation.NewEndpointValidator().ValidateAndNormalize(cfg.Endpoint.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	cfg.Endpoint.URL = normalized

	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	return nil
}

func newClient(cfg *config.Config) (*search.Client, *render.Formatter, error) {
	formatter, err := render.NewFormatter(cfg.UI.Locale, cfg.UI.Timezone, cfg.UI.TimestampLayout)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring display: %w", err)
	}

	client := search.NewClient(
		cfg.Endpoint.URL,
		search.WithUserAgent(cfg.Endpoint.UserAgent),
		search.WithTimeout(cfg.Endpoint.Timeout),
	)
	return client, formatter, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
