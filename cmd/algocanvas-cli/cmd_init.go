package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/algocanvas/algocanvas/client"
)

func newInitCmd() *cobra.Command {
	var (
		initURL     string
		profileName string
		skipCheck   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up AlgoCanvas CLI configuration",
		Long:  "Interactive setup that creates or updates ~/.algocanvas/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initURL, profileName, initURL != "", skipCheck)
		},
	}

	cmd.Flags().StringVar(&initURL, "url", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&profileName, "profile", "default", "Profile to write and activate")
	cmd.Flags().BoolVar(&skipCheck, "no-check", false, "Do not test the connection before saving")
	return cmd
}

func runInit(url, profile string, nonInteractive, skipCheck bool) error {
	if !nonInteractive {
		fmt.Println("\n  AlgoCanvas Setup")
		fmt.Println("  ────────────────")
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("  Server URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		url = strings.TrimSpace(line)
	}

	if url == "" {
		url = defaultURL
	}
	url = strings.TrimSuffix(url, "/")

	if !skipCheck {
		if !nonInteractive {
			fmt.Print("\n  Testing connection... ")
		}

		ver, err := testConnection(url)
		if err != nil {
			if !nonInteractive {
				fmt.Println(bad.Sprint("✗"))
			}
			return fmt.Errorf("connection failed: %w", err)
		}

		if !nonInteractive {
			fmt.Println(good.Sprintf("✓ Connected (v%s)", ver))
		}
	}

	cfgPath, err := writeConfig(profile, url)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if nonInteractive {
		fmt.Printf("Config saved to %s\n", cfgPath)
	} else {
		fmt.Printf("\n  ✓ Config saved to %s\n", cfgPath)
		fmt.Println()
		fmt.Println("  Next steps:")
		fmt.Println("    algocanvas doctor          # Full diagnostic check")
		fmt.Println("    algocanvas session create  # Start a canvas")
		fmt.Println("    algocanvas --help          # See all commands")
		fmt.Println()
	}

	return nil
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if health.Version == "" {
		return "unknown", nil
	}
	return health.Version, nil
}

// writeConfig sets the profile's URL and makes it active, keeping any other
// profiles already in the file.
func writeConfig(profile, url string) (string, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}

	var cfg configFile
	if data, err := os.ReadFile(cfgPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return "", fmt.Errorf("existing config %s: %w", cfgPath, err)
		}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]configProfile{}
	}
	cfg.Profiles[profile] = configProfile{URL: url}
	cfg.ActiveProfile = profile

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
