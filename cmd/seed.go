/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/reefdive/apiserver/internal/catalog"
	"github.com/reefdive/apiserver/internal/db"
	"github.com/reefdive/apiserver/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data",
}

var seedCoursesCmd = &cobra.Command{
	Use:   "courses FILE",
	Short: "Insert or update courses from a YAML catalog",
	Long: `Insert or update courses from a YAML catalog. Usage:

	reefdive seed courses courses.yaml

Courses missing from the file are left as they are.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadEnv()
		if err != nil {
			return err
		}

		courses, err := catalog.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}

		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer conn.Close()

		n, err := catalog.Seed(cmd.Context(), store.NewCourseRepository(conn), courses)
		if err != nil {
			return err
		}
		logger.Info("courses seeded", zap.Int("count", n), zap.String("file", args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedCoursesCmd)
}
