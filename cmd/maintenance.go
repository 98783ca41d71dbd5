package main

import (
	"fmt"

	"healthtrack/config"
	"healthtrack/services"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if _, err := config.InitDB(cfg); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s schema is up to date (%s)\n", green("✓"), cfg.DBName)
		return nil
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute-goals",
	Short: "Rebuild cached progress and streak for every active goal",
	Long: `Rebuild the cached progress and streak of every active goal from its
stored check-ins, and report how many had drifted.

Examples:
  # Repair all active goals
  healthtrack recompute-goals`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		svc := services.NewGoalService(db, nil, log)
		checked, repaired, err := svc.RecomputeAll(cmd.Context())
		if err != nil {
			return err
		}

		if repaired == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s %d goal(s) checked, all consistent\n", green("✓"), checked)
			return nil
		}
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s %d goal(s) checked, %d repaired\n", yellow("⚠"), checked, repaired)
		return nil
	},
}
