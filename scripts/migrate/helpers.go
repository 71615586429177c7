package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// sanitizeURL removes credentials from a database URL for display.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable URL]"
	}
	u.User = nil
	return u.String()
}

// envOr returns the environment variable value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1"
}

// printReport outputs the final migration summary.
func printReport(r *report) {
	fmt.Println()
	fmt.Println("=== AlgoCanvas Library Migration Report ===")
	if r.DryRun {
		fmt.Println("(dry run: nothing was written)")
	}
	fmt.Printf("Source:    %s\n", r.Source)
	fmt.Printf("Target:    %s\n", r.Target)
	fmt.Printf("Duration:  %s\n", r.Duration.Round(1e6))
	fmt.Println()
	fmt.Printf("Graphs read:     %d\n", r.Read)
	fmt.Printf("Graphs copied:   %d\n", r.Copied)
	fmt.Printf("Graphs skipped:  %d (already in target)\n", r.Skipped)
	fmt.Printf("Graphs failed:   %d\n", r.Failed)
	if !r.DryRun {
		fmt.Printf("Target total:    %d\n", r.Verified)
	}

	if len(r.Failures) > 0 {
		fmt.Println()
		fmt.Println("Failures:")
		for _, f := range r.Failures {
			fmt.Printf("  %s: %s\n", f.Name, f.Reason)
		}
	}

	if len(r.SpotChecks) > 0 {
		fmt.Println()
		fmt.Println("Spot checks:")
		for _, c := range r.SpotChecks {
			fmt.Printf("  %s\n", c)
		}
	}

	fmt.Println()
	if r.Err != nil {
		fmt.Printf("Result: FAILED (%v)\n", r.Err)
	} else if r.Failed > 0 {
		fmt.Println("Result: PARTIAL")
	} else {
		fmt.Println("Result: OK")
	}
}
