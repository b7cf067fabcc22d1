package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "bomahub"

var configPath string

// rootCmd runs the console server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Property management console",
	Long: `Bomahub is the back-office console of the property management API.

Available subcommands:
  serve    - Run the web console (default)
  tenants  - Print tenants grouped with their units
  payments - Print payments, optionally filtered by status and property`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to $CONFIG_FILE)")
	rootCmd.AddCommand(serveCmd, tenantsCmd, paymentsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
