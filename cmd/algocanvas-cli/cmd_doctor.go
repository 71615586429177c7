package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/algocanvas/algocanvas/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against the config file, the server and its runtime dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor() error {
	fmt.Println("\nAlgoCanvas Doctor")
	fmt.Println("=================")

	var results []checkResult

	cfgPath, cfg, cfgErr := doctorLoadConfig()
	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Passed: false,
			Detail: cfgPath,
			Hint:   "Run: algocanvas init (optional; --url and ALGOCANVAS_URL also work)",
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	url := doctorResolveURL(cfg)
	results = append(results, checkResult{Name: "Server URL", Passed: true, Detail: url})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := client.New(url)

	health, err := c.Health(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Server reachable", Passed: false,
			Detail: url,
			Hint:   fmt.Sprintf("Is the AlgoCanvas server running?\n   Error: %v", err),
		})
	} else {
		results = append(results, checkResult{
			Name: "Server reachable", Passed: true,
			Detail: fmt.Sprintf("v%s, %s store, %d sessions", health.Version, health.Store, health.Sessions),
		})
		results = append(results, doctorReadiness(ctx, c)...)
	}

	fmt.Println()
	allPassed := true
	for _, r := range results {
		line := fmt.Sprintf("%s %s", statusIcon(r.Passed), r.Name)
		if r.Detail != "" {
			line += ": " + r.Detail
		}
		fmt.Println(line)
		if !r.Passed {
			allPassed = false
			if r.Hint != "" {
				fmt.Printf("   Hint: %s\n", r.Hint)
			}
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println(bad.Sprint("Some checks failed."))
		return fmt.Errorf("doctor found issues")
	}
	fmt.Println(good.Sprint("All checks passed!"))
	return nil
}

// doctorReadiness turns each readiness check into a result line.
func doctorReadiness(ctx context.Context, c *client.Client) []checkResult {
	ready, err := c.Ready(ctx)
	if err != nil {
		return []checkResult{{
			Name: "Server ready", Passed: false,
			Hint: fmt.Sprintf("Readiness failed: %v", err),
		}}
	}

	names := make([]string, 0, len(ready.Checks))
	for name := range ready.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]checkResult, 0, len(names))
	for _, name := range names {
		status := ready.Checks[name]
		out = append(out, checkResult{Name: "Ready: " + name, Passed: status == "ok", Detail: status})
	}
	return out
}

func doctorLoadConfig() (string, *configFile, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, nil, err
	}
	return cfgPath, &cfg, nil
}

// doctorResolveURL applies the same precedence as resolveConfig without
// mutating the global flag.
func doctorResolveURL(cfg *configFile) string {
	if flagURL != defaultURL {
		return flagURL
	}
	if v := os.Getenv("ALGOCANVAS_URL"); v != "" {
		return v
	}
	if cfg != nil {
		if u := cfg.resolveURL(); u != "" {
			return u
		}
	}
	return defaultURL
}
