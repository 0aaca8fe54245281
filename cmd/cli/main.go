package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/cajaledger/internal/infrastructure/auth"
)

var (
	baseURL string
	userID  string
	token   string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cajaledger-cli",
		Short:         "CajaLedger CLI tool",
		Long:          `A command line interface for operating the CajaLedger API: balances, daily summaries, reconciliation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the CajaLedger API")
	rootCmd.PersistentFlags().StringVar(&userID, "user", os.Getenv("CAJALEDGER_USER"), "User id sent as X-User-ID on mutating requests")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("CAJALEDGER_TOKEN"), "Bearer token; overrides --user when the server verifies tokens")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(ledgerCmd(), reconcileCmd(), registerCmd(), accountCmd(), transferCmd(), tokenCmd())

	return rootCmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that transfer entries net to zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			status, err := newClient().do(http.MethodGet, "/api/v1/ledger/consistency", &result)
			if err != nil && status != http.StatusConflict {
				return err
			}

			if status == http.StatusConflict {
				fmt.Fprintf(cmd.OutOrStdout(), "Consistency check FAILED\nMessage: %v\n", result["message"])
				return fmt.Errorf("ledger is inconsistent")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Consistency check PASSED\nTransfer income: %v\nTransfer expense: %v\n",
				result["transfer_income"], result["transfer_expense"])
			return nil
		},
	})

	return cmd
}

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare cached balances with the ledger",
	}

	cmd.AddCommand(
		jsonCmd("report", "List caches that drifted from the ledger", http.MethodGet, func([]string) string {
			return "/api/v1/reconciliation"
		}, cobra.NoArgs),
		jsonCmd("repair", "Recalculate every drifted cache", http.MethodPost, func([]string) string {
			return "/api/v1/reconciliation/repair"
		}, cobra.NoArgs),
	)

	return cmd
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Cash register operations",
	}

	summary := jsonCmd("summary <id>", "Show the daily summary", http.MethodGet, nil, cobra.ExactArgs(1))
	var date string
	summary.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD (default today)")
	summary.RunE = func(cmd *cobra.Command, args []string) error {
		path := "/api/v1/cash-registers/" + url.PathEscape(args[0]) + "/daily-summary"
		if date != "" {
			path += "?date=" + url.QueryEscape(date)
		}
		return printResponse(cmd, http.MethodGet, path)
	}

	cmd.AddCommand(
		jsonCmd("balance <id>", "Compute the register balance from the ledger", http.MethodGet, func(args []string) string {
			return "/api/v1/cash-registers/" + url.PathEscape(args[0]) + "/balance"
		}, cobra.ExactArgs(1)),
		jsonCmd("recalc <id>", "Rewrite the register's cached balance", http.MethodPost, func(args []string) string {
			return "/api/v1/cash-registers/" + url.PathEscape(args[0]) + "/recalculate"
		}, cobra.ExactArgs(1)),
		jsonCmd("history <id>", "Show openings, closings and transfers", http.MethodGet, func(args []string) string {
			return "/api/v1/cash-registers/" + url.PathEscape(args[0]) + "/history"
		}, cobra.ExactArgs(1)),
		summary,
	)

	return cmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	cmd.AddCommand(
		jsonCmd("balance <id>", "Compute the account balance from the ledger", http.MethodGet, func(args []string) string {
			return "/api/v1/accounts/" + url.PathEscape(args[0]) + "/balance"
		}, cobra.ExactArgs(1)),
		jsonCmd("recalc <id>", "Rewrite the account's cached balance", http.MethodPost, func(args []string) string {
			return "/api/v1/accounts/" + url.PathEscape(args[0]) + "/recalculate"
		}, cobra.ExactArgs(1)),
	)

	return cmd
}

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer operations",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent transfers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var transfers []transferRow
			if _, err := newClient().do(http.MethodGet, fmt.Sprintf("/api/v1/transfers?limit=%d", limit), &transfers); err != nil {
				return err
			}

			printTransfers(cmd.OutOrStdout(), transfers)
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Number of transfers")

	cmd.AddCommand(list)

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for --user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}

			signed, err := auth.NewJWTManager(secret, ttl).Generate(userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret shared with the server")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")

	return cmd
}

type transferRow struct {
	Number  string `json:"number"`
	Amount  string `json:"amount"`
	Concept string `json:"concept"`
	Origin  struct {
		Kind string `json:"kind"`
		ID   string `json:"id"`
	} `json:"origin"`
	Destination struct {
		Kind string `json:"kind"`
		ID   string `json:"id"`
	} `json:"destination"`
	CreatedBy string `json:"created_by"`
}

func printTransfers(w io.Writer, transfers []transferRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tAMOUNT\tORIGIN\tDESTINATION\tCONCEPT\tBY")
	for _, t := range transfers {
		fmt.Fprintf(tw, "%s\t%s\t%s:%s\t%s:%s\t%s\t%s\n",
			t.Number, t.Amount,
			t.Origin.Kind, truncate(t.Origin.ID, 12),
			t.Destination.Kind, truncate(t.Destination.ID, 12),
			truncate(t.Concept, 30), t.CreatedBy)
	}
	_ = tw.Flush()
}

// jsonCmd builds a command that calls one endpoint and prints the JSON
// response.
func jsonCmd(use, short, method string, path func(args []string) string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd, method, path(args))
		},
	}
}

func printResponse(cmd *cobra.Command, method, path string) error {
	var result any
	if _, err := newClient().do(method, path, &result); err != nil {
		return err
	}

	printJSON(cmd.OutOrStdout(), result)
	return nil
}

type client struct {
	baseURL string
	userID  string
	token   string
	http    *http.Client
}

func newClient() *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends the request and decodes the body into out. Non-2xx responses
// are returned as errors carrying the API's message; out is still filled
// when the body is JSON.
func (c *client) do(method, path string, out any) (int, error) {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	if resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return resp.StatusCode, nil
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
