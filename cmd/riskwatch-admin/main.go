// riskwatch-admin is the operator CLI for a running riskwatch instance. It
// speaks the HTTP API: inspecting and updating engine configuration, listing
// alerts, and acknowledging them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serverURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "riskwatch-admin",
		Short: "Operator CLI for the riskwatch engine",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the riskwatch server")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAlertsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
