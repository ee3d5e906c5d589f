package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/prensa-cms/prensa/pkg/prensa/config"
)

var (
	// Global flags
	port     string
	logLevel string
	mediaDir string
	noSeed   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "prensa",
	Short: "Prensa - multilingual site and post management",
	Long: `Prensa is a content-management core for multilingual sites.

Users own sites, author posts out of text and media blocks, translate
them into other languages, comment, and share excerpts to social
networks. Everything is held in memory; state lives as long as the
process does.`,
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "Server port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&mediaDir, "media-dir", "", "Directory media imports are resolved against (overrides MEDIA_DIR)")
	rootCmd.PersistentFlags().BoolVar(&noSeed, "no-seed", false, "Skip loading the demo fixture")
}

// loadConfig builds the server configuration from the environment plus
// flag overrides.
func loadConfig() (*config.ServerConfig, error) {
	opts := []config.Option{config.WithEnv()}
	if port != "" {
		opts = append(opts, config.WithPort(port))
	}
	if logLevel != "" {
		opts = append(opts, config.WithLogLevel(logLevel))
	}
	if mediaDir != "" {
		opts = append(opts, config.WithMediaDir(mediaDir))
	}
	if noSeed {
		opts = append(opts, config.WithSeedDemo(false))
	}
	return config.Load(opts...)
}
