package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wikigraph/wikigraph/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter configuration file",
		Long: `Init writes a commented ` + config.ConfigFileName + ` configuration file to the
current directory. Every setting in it is optional and commented out;
uncomment what you want to override. CLI flags always win over the file.

Examples:
  # Create ` + config.ConfigFileName + ` in the current directory
  wikigraph init

  # Create the config file at a specific path
  wikigraph init -o configs/commons.yaml

  # Overwrite an existing file
  wikigraph init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.ConfigFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if force {
		if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing file: %w", err)
		}
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := config.WriteSample(outputPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	return nil
}
