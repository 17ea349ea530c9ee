package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdlms/aws-tui/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Long:  "Create the settings file with default values, using --profile, --region and --page-size when given",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite without asking")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := opts.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(out, "Settings file %s already exists. Do you want to overwrite it? (y/N): ", path)
		var response string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)
		if !strings.EqualFold(strings.TrimSpace(response), "y") {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := config.Default()
	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Profile = opts.profile
	}
	if flags.Changed("region") {
		cfg.Region = opts.region
	}
	if flags.Changed("page-size") {
		cfg.PageSize = opts.pageSize
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Settings written to %s\n", path)
	return nil
}
