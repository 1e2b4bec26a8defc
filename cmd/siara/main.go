// Command siara is the lost/found animal board. Without a subcommand it runs
// the terminal UI together with the loopback map bridge.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "siara"

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "siara",
	Short: "Lost and found animal board with a map picker",
	Long: `siara lists lost and found animal reports in the terminal and serves a
loopback web map. Clicking the map records a coordinate that the report form
can pull in with ctrl+p.`,
	SilenceUsage: true,
	RunE:         runDesktop,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run only the map bridge until interrupted",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the report store schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./config.yaml, ./configs, $XDG_CONFIG_HOME/siara)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	serveCmd.Flags().Int("port", -1, "bridge port (overrides bridge.port; 0 picks a free port)")

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
