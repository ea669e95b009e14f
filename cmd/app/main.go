package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/faq-agent/internal/domain/auth"
	"github.com/yanqian/faq-agent/internal/infra/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "faq-agent",
	Short:         "FAQ assistant backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and MCP server (default)",
	RunE:  runServe,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed access token",
	Long: `Mint a signed access token with the configured auth secret.

Examples:
  faq-agent token --user-id 1 --email admin@example.com --role ADMIN
  faq-agent token --user-id 2 --email someone@example.com --ttl 30m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user-id")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		if role != auth.RoleUser && role != auth.RoleAdmin {
			return fmt.Errorf("--role must be %s or %s", auth.RoleUser, auth.RoleAdmin)
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if ttl <= 0 {
			ttl = cfg.Auth.TokenTTL
		}
		token, err := auth.SignToken(cfg.Auth.Secret, auth.Claims{UserID: userID, Email: email, Role: role}, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64("user-id", 0, "User id placed in the token")
	tokenCmd.Flags().String("email", "", "Email placed in the token")
	tokenCmd.Flags().String("role", auth.RoleAdmin, "Role: USER or ADMIN")
	tokenCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	rootCmd.AddCommand(serveCmd, tokenCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := initializeApp()
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("application stopped with error: %w", err)
	}
	return nil
}
