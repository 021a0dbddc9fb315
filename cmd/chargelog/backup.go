package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voltpath/chargelog/internal/cli"
	"github.com/voltpath/chargelog/internal/export"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore your data",
		Long:  `Snapshot all stations and records to a JSON file, or load one back in.`,
	}

	cmd.AddCommand(backupCreateCmd())
	cmd.AddCommand(backupRestoreCmd())

	return cmd
}

func backupCreateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a backup",
		Long: `Write all stations and records to a JSON backup file.

Examples:
  chargelog backup create -o chargelog-backup.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			w := os.Stdout
			if output != "" {
				f, createErr := os.Create(output) //nolint:gosec // user-supplied output path
				if createErr != nil {
					return fmt.Errorf("failed to create %s: %w", output, createErr)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := export.WriteBackup(ctx, store, w); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}

			if output != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Backup written to %s", output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func backupRestoreCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore from a backup",
		Long: `Load stations and records from a JSON backup file.

Existing stations with the same name are kept; records with the same ID
are overwritten by the backup's version.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			if !force {
				fmt.Printf("Restore from %s into your database? (y/N): ", path)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Restore cancelled.")
					return nil
				}
			}

			f, err := os.Open(path) //nolint:gosec // user-supplied backup path
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := export.RestoreBackup(ctx, store, f)
			if err != nil {
				return fmt.Errorf("failed to restore backup: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Restored %d stations and %d records", result.Categories, result.Records)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
