package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PrefaceCoding/BlogCloneProject/app/config"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
	"github.com/PrefaceCoding/BlogCloneProject/app/services"
)

var errCancelled = errors.New("operation cancelled")

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			out := cmd.OutOrStdout()

			if exists(cfg.Storage.Path) {
				fmt.Fprintln(out, "Database already exists. Use 'clean' first if you want to reinitialize.")
				return nil
			}

			store, err := openStore(cfg, rootOpts.Logger)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			if err := store.Close(); err != nil {
				return err
			}

			fmt.Fprintf(out, "Database initialized successfully (%s at %s)\n", cfg.Storage.Driver, cfg.Storage.Path)
			return nil
		},
	}
}

// NewCleanCommand creates the clean command.
func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the blog database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			out := cmd.OutOrStdout()

			if !exists(cfg.Storage.Path) {
				fmt.Fprintln(out, "Database is already clean (does not exist)")
				return nil
			}

			if !yes && !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}

			if err := removeStore(cfg.Storage); err != nil {
				return fmt.Errorf("failed to clean database: %w", err)
			}
			fmt.Fprintln(out, "Database cleaned successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// NewBackupCommand creates the backup command.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if err := requireBadger(cfg.Storage); err != nil {
				return err
			}
			if !exists(cfg.Storage.Path) {
				return fmt.Errorf("no database exists to backup at %s", cfg.Storage.Path)
			}
			if dir == "" {
				dir = cfg.Storage.BackupDir
			}

			file, err := backupStore(cfg, rootOpts, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", file)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "backup directory (overrides config)")
	return cmd
}

func backupStore(cfg *config.Config, rootOpts *RootOptions, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	store, err := repositories.OpenBadger(cfg.Storage.Path, badgerLogger(rootOpts.Logger))
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	backupFile := filepath.Join(dir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := store.DB().Backup(f, 0); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	return backupFile, nil
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			out := cmd.OutOrStdout()
			backupFile := args[0]

			if err := requireBadger(cfg.Storage); err != nil {
				return err
			}

			fi, err := os.Stat(backupFile)
			if err != nil {
				return fmt.Errorf("backup file does not exist: %s", backupFile)
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", backupFile)
			}

			if exists(cfg.Storage.Path) {
				if !yes && !confirm(cmd, "Existing database found. Do you want to replace it?") {
					fmt.Fprintln(out, "Operation cancelled")
					return errCancelled
				}
				if err := os.RemoveAll(cfg.Storage.Path); err != nil {
					return fmt.Errorf("failed to remove existing database: %w", err)
				}
			}

			if err := restoreStore(cfg, rootOpts, backupFile); err != nil {
				return err
			}
			fmt.Fprintln(out, "Database restored successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace an existing database without asking")
	return cmd
}

func restoreStore(cfg *config.Config, rootOpts *RootOptions, backupFile string) (err error) {
	if err := os.MkdirAll(cfg.Storage.Path, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := repositories.OpenBadger(cfg.Storage.Path, badgerLogger(rootOpts.Logger))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	// Load panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to restore database: invalid backup file: %v", r)
		}
	}()

	if err := store.DB().Load(f, 4); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// NewCreateUserCommand creates the createuser command.
func NewCreateUserCommand(rootOpts *RootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "createuser <username>",
		Short: "Create an account that can log in and write posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
				fmt.Fprintln(cmd.OutOrStdout())
			}

			store, err := openStore(cfg, rootOpts.Logger)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			auth := services.NewAuthService(store.Users(), store.Sessions(), cfg.Auth.SessionTTL, cfg.Auth.BcryptCost)
			user, err := auth.CreateUser(args[0], password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %q created (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func requireBadger(storage config.StorageConfig) error {
	if storage.Driver != repositories.DriverBadger {
		return fmt.Errorf("backup and restore need the %s driver, configured driver is %q", repositories.DriverBadger, storage.Driver)
	}
	return nil
}

// removeStore deletes the store files, including SQLite's journal files.
func removeStore(storage config.StorageConfig) error {
	if err := os.RemoveAll(storage.Path); err != nil {
		return err
	}
	if storage.Driver == repositories.DriverSQLite {
		for _, suffix := range []string{"-wal", "-shm"} {
			if err := os.Remove(storage.Path + suffix); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	var response string
	fmt.Fscanln(cmd.InOrStdin(), &response)
	return response == "y" || response == "Y"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
