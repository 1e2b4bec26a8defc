package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samirrijal/siara/internal/pkg/logging"
)

// runMigrate applies the idempotent schema of the configured store. Opening
// the store already migrates it, so this only reports where it went.
func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	st, err := openStore(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer st.close()

	target := cfg.Database.Path
	if cfg.Database.Driver == "postgres" {
		target = fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK  %s %s\n", cfg.Database.Driver, target)
	return nil
}
