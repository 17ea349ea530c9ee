package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the regions the account can use",
	RunE:  runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, _ []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	client, err := newClient(cmd.Context(), rt)
	if err != nil {
		return err
	}
	regions, err := client.ListRegions(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range regions {
		marker := " "
		if r.Name == client.Region {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-16s %s\n", marker, r.Name, r.Endpoint)
	}
	return nil
}
