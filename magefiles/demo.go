//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Demo runs a supply, demand, and match round trip through the CLI
// against a throwaway database.
func Demo() error {
	mg.Deps(Build)

	dir, err := os.MkdirTemp("", "feedforward-demo")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(binDir, binName)
	db := filepath.Join(dir, "demo.db")
	as := func(participant string, args ...string) (string, error) {
		base := []string{"--store", db, "--participant", participant, "--log-level", "warn"}
		return sh.Output(bin, append(base, args...)...)
	}

	if _, err := as("participant-x", "supply", "create",
		"--keyword", "rust", "--keyword", "systems", "--context-level", "3", "--conversation", "demo"); err != nil {
		return fmt.Errorf("creating supply: %w", err)
	}

	out, err := as("participant-y", "demand", "create",
		"--keyword", "rust", "--keyword", "gc", "--urgency", "5", "--context", "need help with rust",
		"--format", "yaml")
	if err != nil {
		return fmt.Errorf("creating demand: %w", err)
	}
	hash := yamlField(out, "demand_hash")
	if hash == "" {
		return fmt.Errorf("no demand_hash in output:\n%s", out)
	}

	return sh.RunV(bin, "--store", db, "--participant", "participant-y", "--log-level", "warn", "match", hash)
}

// yamlField returns the value of the first "key: value" line for key.
func yamlField(out, key string) string {
	for _, line := range strings.Split(out, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), ":")
		if ok && k == key {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
