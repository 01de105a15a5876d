package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/jeogi-market/cmd/marketctl/ui"
	"github.com/redmonkez12/jeogi-market/internal/account"
	"github.com/redmonkez12/jeogi-market/internal/auth"
	"github.com/redmonkez12/jeogi-market/internal/config"
	"github.com/redmonkez12/jeogi-market/internal/database"
	"github.com/redmonkez12/jeogi-market/internal/logging"
	"github.com/redmonkez12/jeogi-market/internal/signup"
)

const commandTimeout = 30 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:          "marketctl",
		Short:        "Operator tooling for the Jeogi Market API",
		Long:         "Runs schema migrations, purges expired pending registrations and issues access tokens against the configured database.",
		SilenceUsage: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE:  runMigrate,
	}

	purgeCmd := &cobra.Command{
		Use:   "purge-pending",
		Short: "Delete pending registrations whose verification link has expired",
		RunE:  runPurgePending,
	}
	purgeCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	tokenCmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Issue an access token for an existing account",
		RunE:  runIssueToken,
	}
	tokenCmd.Flags().String("email", "", "Account email")
	_ = tokenCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(migrateCmd, purgeCmd, tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	db, _, err := openDB(ctx)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.DB); err != nil {
		ui.PrintError(err.Error())
		return err
	}

	ui.PrintSuccess("Migrations applied")
	return nil
}

func runPurgePending(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	if !yes {
		ok, err := ui.Confirm("Purge expired pending registrations?", "Their verification links stop working immediately.")
		if err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	db, _, err := openDB(ctx)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer db.Close()

	removed, err := signup.NewRepository(db).PurgeExpired(ctx, time.Now())
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	ui.PrintSuccess("Expired registrations purged")
	ui.PrintField("Removed", fmt.Sprintf("%d", removed))
	return nil
}

func runIssueToken(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	db, cfg, err := openDB(ctx)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer db.Close()

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	svc := auth.NewService(account.NewRepository(db), tokens, logger, cfg.Auth.AccessTokenDuration)

	token, err := svc.IssueForEmail(ctx, email)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	ui.PrintTitle("Access token")
	ui.PrintField("Email", email)
	ui.PrintField("Format", cfg.Auth.TokenFormat)
	fmt.Println(token)
	return nil
}

func openDB(ctx context.Context) (*bun.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Open(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}
