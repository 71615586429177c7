package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/algocanvas/algocanvas/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3040"

var (
	apiClient *client.Client
	flagURL   string
	flagFmt   string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("algocanvas version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("algocanvas version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL string `yaml:"url"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL string `yaml:"url"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "algocanvas",
		Short:   "AlgoCanvas CLI: drive graph canvas sessions and replay algorithm runs",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			apiClient = client.New(flagURL, client.WithUserAgent("algocanvas-cli/"+version))
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "AlgoCanvas server URL (env: ALGOCANVAS_URL)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	skipClient := func(cmd *cobra.Command, args []string) {}

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = skipClient
	doctorCmd := newDoctorCmd()
	doctorCmd.PersistentPreRun = skipClient
	offline := []*cobra.Command{newExtractCmd(), newReplayCmd(), newAdjacencyCmd()}
	for _, c := range offline {
		c.PersistentPreRun = skipClient
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newCanvasCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newPlaybackCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newLibraryCmd())
	rootCmd.AddCommand(newTemplateCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(offline...)

	return rootCmd
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".algocanvas", "config.yaml"), nil
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("ALGOCANVAS_URL"); v != "" {
			flagURL = v
			return
		}
	}
	if flagURL != defaultURL {
		return
	}

	cfgPath, err := configPath()
	if err != nil {
		return
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}
	if u := cfg.resolveURL(); u != "" {
		flagURL = u
	}
}

// resolveURL picks the active profile's URL, falling back to the flat key.
func (c *configFile) resolveURL() string {
	resolved := c.URL
	if c.Profiles != nil {
		name := c.ActiveProfile
		if name == "" {
			name = "default"
		}
		if p, ok := c.Profiles[name]; ok && p.URL != "" {
			resolved = p.URL
		}
	}
	return resolved
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
