package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"hesab.local/pfm/internal/config"
	"hesab.local/pfm/internal/export"
	"hesab.local/pfm/internal/logger"
	"hesab.local/pfm/internal/matcher"
	"hesab.local/pfm/internal/parser"
	"hesab.local/pfm/internal/report"
	"hesab.local/pfm/internal/store"
)

var errNotRecognized = errors.New("no transaction recognized")

type parsed struct {
	Amount       json.Number `json:"amount"`
	Type         string      `json:"type"`
	Description  string      `json:"description"`
	AccountID    *int64      `json:"account_id"`
	CategoryID   *int64      `json:"category_id"`
	AccountName  string      `json:"account_name"`
	CategoryName string      `json:"category_name"`
	SavedID      int64       `json:"saved_id,omitempty"`
}

type app struct {
	dbPath string
	store  *store.Store
	now    func() time.Time
}

func main() {
	cfg := config.Load()
	root, a := newRootCmd(cfg, os.Stdout)
	err := root.Execute()
	// RunE errors skip post-run hooks, so the store is closed here
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, out io.Writer) (*cobra.Command, *app) {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:           "pfm",
		Short:         "Persian personal finance manager",
		Long:          `Parse Persian transaction messages, report totals and export the ledger from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(cmd.Context(), a.dbPath)
			if err != nil {
				return err
			}
			a.store = s
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", cfg.DBPath, "SQLite database path")
	root.SetOut(out)
	root.SetContext(logger.WithContext(context.Background(), logger.NewWithLevel(cfg.LogLevel)))

	root.AddCommand(a.parseCmd(), a.reportCmd(), a.exportCmd())
	return root, a
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *app) parseCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Parse a Persian transaction message and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			accounts, err := a.store.Accounts(ctx)
			if err != nil {
				return err
			}
			categories, err := a.store.Categories(ctx)
			if err != nil {
				return err
			}

			tx := parser.Parse(args[0], accounts, categories)
			if tx == nil {
				return errNotRecognized
			}

			res := parsed{
				Amount:       json.Number(tx.Amount.String()),
				Type:         string(tx.Direction),
				Description:  tx.Description,
				AccountID:    tx.AccountID,
				CategoryID:   tx.CategoryID,
				AccountName:  matcher.NameOf(tx.AccountID, accounts, ""),
				CategoryName: matcher.NameOf(tx.CategoryID, categories, ""),
			}
			if save {
				id, err := a.store.SaveTransaction(ctx, tx, a.now())
				if err != nil {
					return err
				}
				res.SavedID = id
				log := logger.FromContext(ctx)
				log.Debug().Int64("transaction_id", id).Msg("Transaction saved")
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Persist the parsed transaction")
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print income, expense and balance for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := report.ParsePeriod(period)
			if err != nil {
				return err
			}
			sum, err := report.Build(cmd.Context(), a.store, p, a.now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), report.Text(sum))
			return err
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", string(report.Monthly), "daily, weekly or monthly")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		f   store.Filter
		typ string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions as CSV to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if typ != "" {
				f.Type = parser.Direction(typ)
				if !f.Type.Valid() {
					return fmt.Errorf("invalid --type %q, want income or expense", typ)
				}
			}
			list, err := a.store.ListTransactions(cmd.Context(), f)
			if err != nil {
				return err
			}
			return export.WriteCSV(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVarP(&f.Query, "q", "q", "", "Description substring")
	cmd.Flags().StringVar(&typ, "type", "", "income or expense")
	cmd.Flags().Int64Var(&f.AccountID, "account", 0, "Account id")
	cmd.Flags().Int64Var(&f.CategoryID, "category", 0, "Category id")
	return cmd
}
