package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/finsight/internal/tui"
)

func newReviewCommand(opts *rootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review rows held as pending_review",
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
			app := tui.New(ctx, userID, user, tui.Services{
				Queue:      a.diagnostics,
				Actions:    a.maintenance,
				Categories: a.categorizer,
			})
			_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner email (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
