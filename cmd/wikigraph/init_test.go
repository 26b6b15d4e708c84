package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wikigraph/wikigraph/internal/config"
)

// TestNewInitCmd tests the init command creation.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "init" {
			t.Errorf("expected use 'init', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.ConfigFileName {
			t.Errorf("expected default %q, got %q", config.ConfigFileName, flag.DefValue)
		}
	})

	t.Run("has force flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("force")
		if flag == nil {
			t.Fatal("expected force flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), config.ConfigFileName)

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", outputPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read created file: %v", err)
		}
		if !strings.Contains(string(content), "endpoint:") {
			t.Error("expected sample config to mention the endpoint setting")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", outputPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(outputPath); err != nil {
			t.Errorf("expected config file to be created: %v", err)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), config.ConfigFileName)
		if err := os.WriteFile(outputPath, []byte("endpoint: x\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", outputPath})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error when file already exists")
		}
	})

	t.Run("overwrites with force", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), config.ConfigFileName)
		if err := os.WriteFile(outputPath, []byte("endpoint: x\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", outputPath, "-f"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) == "endpoint: x\n" {
			t.Error("expected file to be replaced")
		}
	})
}
