/**
 * @description
 * Admin dashboard for Dhrone Predicts.
 * With no subcommand it opens the interactive terminal dashboard; "list" and "stats"
 * print the same data for scripts.
 *
 * Usage:
 *   go run ./cmd/dashboard --email admin@dhronepredicts.com --password ...
 *   go run ./cmd/dashboard list --category bankerTips --search madrid
 *   go run ./cmd/dashboard stats
 *
 * @dependencies
 * - github.com/spf13/cobra: Command tree and flags
 * - github.com/charmbracelet/bubbletea: Terminal UI runtime
 * - github.com/charmbracelet/lipgloss/table: Plain table output
 *
 * @notes
 * - Reads need no credentials. Mutations need --token, or --email/--password to log in.
 */

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dhrone-predicts/backend/internal/dashboard"
	"github.com/dhrone-predicts/backend/internal/logger"
	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/dhrone-predicts/backend/internal/ui"
)

type options struct {
	apiURL    string
	email     string
	password  string
	token     string
	maxWidth  int
	maxHeight int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Dhrone Predicts admin dashboard",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the alt screen owns the terminal, keep log lines out of it
			logger.Configure("disabled", "production")

			client, err := connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			m := ui.NewModel(client, opts.apiURL, opts.maxWidth, opts.maxHeight)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", envOr("DASHBOARD_API_URL", "http://localhost:5000"), "Predictions API URL")
	flags.StringVar(&opts.email, "email", os.Getenv("ADMIN_EMAIL"), "Admin email used to log in")
	flags.StringVar(&opts.password, "password", os.Getenv("ADMIN_PASSWORD"), "Admin password used to log in")
	flags.StringVar(&opts.token, "token", os.Getenv("ADMIN_TOKEN"), "Admin token (skips login)")
	root.Flags().IntVar(&opts.maxWidth, "max-width", 0, "Max columns (0 = no limit)")
	root.Flags().IntVar(&opts.maxHeight, "max-height", 0, "Max rows (0 = no limit)")

	root.AddCommand(newListCmd(opts), newStatsCmd(opts))
	return root
}

func newListCmd(opts *options) *cobra.Command {
	var category, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print predictions as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != dashboard.AllCategories && !models.IsValidCategory(category) {
				return fmt.Errorf("unknown category %q", category)
			}
			client, err := connect(cmd.Context(), opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			rows, err := client.FetchRows(ctx, category)
			if err != nil {
				return fmt.Errorf("failed to fetch predictions: %w", err)
			}
			rows = dashboard.Search(rows, search)
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "MATCH", "PREDICTION", "ODDS", "PROB", "CATEGORY", "DATE", "STATUS", "★")
			for _, p := range rows {
				star := ""
				if p.Featured {
					star = "★"
				}
				t.Row(p.ID, p.Match, p.Prediction, p.Odds, p.Probability,
					models.CategoryName(p.Category), p.Date, string(p.Status), star)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			fmt.Fprintf(cmd.OutOrStdout(), "%d prediction(s)\n", len(rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", dashboard.AllCategories, "Category id, or \"all\"")
	cmd.Flags().StringVar(&search, "search", "", "Only rows whose match or prediction contains this text")
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print prediction counts by status and category",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect(cmd.Context(), opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			all, err := client.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch predictions: %w", err)
			}

			s := dashboard.Summarize(all)
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("CATEGORY", "TOTAL", "PENDING", "WON", "LOST")
			for _, c := range models.Categories {
				cs := dashboard.Summarize(dashboard.Collection{c.ID: all[c.ID]})
				t.Row(c.Name, fmt.Sprint(cs.Total), fmt.Sprint(cs.Pending), fmt.Sprint(cs.Won), fmt.Sprint(cs.Lost))
			}
			t.Row("All", fmt.Sprint(s.Total), fmt.Sprint(s.Pending), fmt.Sprint(s.Won), fmt.Sprint(s.Lost))
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

// connect builds the API client, logging in when credentials are given
func connect(ctx context.Context, opts *options) (*dashboard.Client, error) {
	client := dashboard.NewClient(opts.apiURL)
	if opts.token != "" {
		client.SetToken(opts.token)
		return client, nil
	}
	if opts.email == "" || opts.password == "" {
		return client, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	user, err := client.Login(ctx, opts.email, opts.password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	logger.Debug("dashboard: logged in as %s", user.Name)
	return client, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
