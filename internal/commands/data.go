package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jask/finsight/internal/database"
	"github.com/jask/finsight/internal/fixtures"
	"github.com/jask/finsight/internal/report"
	"github.com/jask/finsight/internal/service"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed default categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			version, dirty, err := database.MigrationVersion(a.db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d (dirty=%t)\n", a.cfg.Database.Path, version, dirty)
			return nil
		},
	}
}

func newUserCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var email, password string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if password == "" {
				password = os.Getenv("FINSIGHT_PASSWORD")
			}
			u, err := a.auth.Register(a.withLogger(cmd.Context()), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	add.Flags().StringVar(&email, "email", "", "login email (required)")
	_ = add.MarkFlagRequired("email")
	add.Flags().StringVar(&password, "password", "", "password (default $FINSIGHT_PASSWORD)")

	cmd.AddCommand(add)
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var user, sign string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a CSV statement as a new source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := a.withLogger(cmd.Context())
			userID, err := a.userID(ctx, user)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := a.ingest.Import(ctx, userID, filepath.Base(args[0]), sign, f)
			if err != nil {
				return err
			}
			return report.Import(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner email (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&sign, "sign", "negative", "amount sign convention of the file: negative or positive expenses")

	return cmd
}

func newReconcileCommand(opts *rootOptions) *cobra.Command {
	var (
		csvPath string
		user    string
		req     service.ReconcileRequest
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare a CSV statement with the stored transactions of its source file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := a.withLogger(cmd.Context())
			userID, err := a.userID(ctx, user)
			if err != nil {
				return err
			}
			rep, err := a.reconciler.FindMissingFromPath(ctx, userID, csvPath, req)
			if err != nil {
				return err
			}
			return writeReconcile(cmd.OutOrStdout(), rep, asJSON)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "statement CSV path (required)")
	_ = cmd.MarkFlagRequired("csv")
	cmd.Flags().StringVar(&user, "user", "", "owner email (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&req.Filename, "file", "", "stored source filename (default: base name of --csv)")
	cmd.Flags().StringVar(&req.SourceFileID, "file-id", "", "stored source file id (wins over --file)")
	cmd.Flags().StringVar(&req.Month, "month", "", "restrict both sides to YYYY-MM")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func writeReconcile(w io.Writer, rep service.ReconcileReport, asJSON bool) error {
	if !asJSON {
		return report.Reconcile(w, rep)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func newCleanupCommand(opts *rootOptions) *cobra.Command {
	var (
		user     string
		allUsers bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete source files that have no transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := a.withLogger(cmd.Context())
			userID, err := a.userID(ctx, user)
			if err != nil {
				return err
			}
			res, err := a.maintenance.CleanupEmptySourceFiles(ctx, userID, allUsers)
			if err != nil {
				return err
			}
			return report.Cleanup(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "operator email (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().BoolVar(&allUsers, "all", false, "clean up every user's empty files")

	return cmd
}

func newResetCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all users, sessions, source files and transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset is destructive; pass --yes to confirm")
			}
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.maintenance.Reset(a.withLogger(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")

	return cmd
}

func newDemoCommand() *cobra.Command {
	var (
		out  string
		stmt fixtures.Statement
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a generated sample statement CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return stmt.Write(w)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output path, - for stdout")
	cmd.Flags().StringVar(&stmt.Month, "month", "2025-11", "statement month YYYY-MM")
	cmd.Flags().IntVar(&stmt.Rows, "rows", 30, "number of rows")
	cmd.Flags().Int64Var(&stmt.Seed, "seed", 1, "random seed")
	cmd.Flags().BoolVar(&stmt.Positive, "positive", false, "write expenses as positive amounts")

	return cmd
}
