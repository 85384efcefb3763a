package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adventcalendar/internal/config"
	"adventcalendar/internal/database"
	"adventcalendar/internal/logger"
	"adventcalendar/internal/service"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import players, progress and sent notifications as JSON",
		Long: `Export or import the game database.

Environment:
  DATABASE_TYPE    sqlite, postgres or mysql (default sqlite)
  DB_PATH          SQLite database path (default ./advent.db)
  DATABASE_URL     PostgreSQL or MySQL connection URL`,
	}
	cmd.AddCommand(newExportCmd(), newImportCmd())
	return cmd
}

// openBackupService connects and migrates the configured database
func openBackupService() (*service.BackupService, *database.DB, *logger.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, codeError(3, "invalid configuration: %s", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, nil, codeError(2, "failed to initialize database: %s", err)
	}
	if _, err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, nil, codeError(2, "failed to run migrations: %s", err)
	}
	return service.NewBackupService(db, log), db, log, nil
}

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the database to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}

			svc, db, log, err := openBackupService()
			if err != nil {
				return err
			}
			defer db.Close()
			defer log.Sync()

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()

			data, err := svc.Export(f)
			if err != nil {
				return codeError(1, "export failed: %s", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d players and %d notifications to %s\n",
				len(data.Players), len(data.Notifications), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Output file path (default backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var input string
	var clearData, yes bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return codeError(3, "open input: %s", err)
			}
			defer f.Close()

			if clearData && !yes {
				fmt.Fprint(cmd.OutOrStdout(), "WARNING: This will delete all existing data. Type 'yes' to confirm: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
					return nil
				}
			}

			svc, db, log, err := openBackupService()
			if err != nil {
				return err
			}
			defer db.Close()
			defer log.Sync()

			data, err := svc.Import(f, clearData)
			if err != nil {
				return codeError(1, "import failed: %s", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d players and %d notifications\n",
				len(data.Players), len(data.Notifications))
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Input file path")
	cmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before import (destructive)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt for --clear")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
