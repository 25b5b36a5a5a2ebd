package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/finsight/internal/database/repository"
)

const queueLimit = 500

// Queue lists the rows awaiting review.
type Queue interface {
	SampleTransactions(ctx context.Context, userID string, f repository.TransactionFilters) ([]repository.Transaction, error)
}

// Actions resolves reviewed rows.
type Actions interface {
	ApproveTransactions(ctx context.Context, userID string, f repository.TransactionFilters) (int64, error)
	DeleteTransactions(ctx context.Context, userID string, f repository.TransactionFilters) (int64, error)
}

// Categories lists categories and assigns them.
type Categories interface {
	ListCategories(ctx context.Context) ([]repository.Category, error)
	SetCategory(ctx context.Context, userID, transactionID string, categoryID *string) error
}

type Services struct {
	Queue      Queue
	Actions    Actions
	Categories Categories
}

// App is the review queue for one user's pending_review rows.
type App struct {
	ctx          context.Context
	userID       string
	userLabel    string
	services     Services
	pending      []repository.Transaction
	options      []categoryOption
	categoryName map[string]string // id -> name
	cursor       int
	pick         int
	modal        modalState
	status       string
}

type categoryOption struct {
	id    *string
	label string
}

// categoryOptions lists each child indented under its parent, after a first
// option that clears the category.
func categoryOptions(cats []repository.Category) []categoryOption {
	known := make(map[string]bool, len(cats))
	for _, c := range cats {
		known[c.ID] = true
	}
	children := map[string][]repository.Category{}
	var roots []repository.Category
	for _, c := range cats {
		if c.ParentID != nil && known[*c.ParentID] {
			children[*c.ParentID] = append(children[*c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}
	opts := []categoryOption{{label: "(none)"}}
	for _, r := range roots {
		id := r.ID
		opts = append(opts, categoryOption{id: &id, label: r.Name})
		for _, c := range children[r.ID] {
			childID := c.ID
			opts = append(opts, categoryOption{id: &childID, label: "  " + c.Name})
		}
	}
	return opts
}

type modalState string

const (
	modalNone           modalState = ""
	modalCategoryPicker modalState = "categoryPicker"
	modalConfirmDelete  modalState = "confirmDelete"
)

func New(ctx context.Context, userID, userLabel string, services Services) *App {
	return &App{
		ctx:       ctx,
		userID:    userID,
		userLabel: userLabel,
		services:  services,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadPending(), a.loadCategories())
}

// messages
type pendingMsg []repository.Transaction
type categoryListMsg []repository.Category
type statusMsg string
type errMsg struct{ error }

// resolvedMsg reports an approve/delete/categorize and triggers a reload.
type resolvedMsg string

func (a *App) loadPending() tea.Cmd {
	return func() tea.Msg {
		list, err := a.services.Queue.SampleTransactions(a.ctx, a.userID, repository.TransactionFilters{
			Status: repository.StatusPendingReview,
			Limit:  queueLimit,
		})
		if err != nil {
			return errMsg{err}
		}
		return pendingMsg(list)
	}
}

func (a *App) loadCategories() tea.Cmd {
	return func() tea.Msg {
		if a.services.Categories == nil {
			return categoryListMsg(nil)
		}
		cats, err := a.services.Categories.ListCategories(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return categoryListMsg(cats)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "up", "k":
			if a.cursor > 0 {
				a.cursor--
			}
		case "down", "j":
			if a.cursor < len(a.pending)-1 {
				a.cursor++
			}
		case "r":
			a.status = "reloading..."
			return a, a.loadPending()
		case "a":
			if tx, ok := a.selected(); ok {
				return a, a.approveCmd(tx.ID)
			}
		case "A":
			if len(a.pending) > 0 {
				return a, a.approveAllCmd()
			}
		case "x":
			if _, ok := a.selected(); ok {
				a.modal = modalConfirmDelete
			}
		case "c":
			if _, ok := a.selected(); ok && len(a.options) > 1 {
				a.modal = modalCategoryPicker
				a.pick = 0
			}
		}
	case pendingMsg:
		a.pending = []repository.Transaction(m)
		if a.cursor >= len(a.pending) {
			a.cursor = max(len(a.pending)-1, 0)
		}
		if a.status == "reloading..." {
			a.status = ""
		}
	case categoryListMsg:
		a.options = categoryOptions(m)
		a.categoryName = make(map[string]string, len(m))
		for _, c := range m {
			a.categoryName[c.ID] = c.Name
		}
	case resolvedMsg:
		a.status = string(m)
		return a, a.loadPending()
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch m.String() {
		case "y":
			a.modal = modalNone
			if tx, ok := a.selected(); ok {
				return a, a.deleteCmd(tx.ID)
			}
		case "n", "esc":
			a.modal = modalNone
		}
	case modalCategoryPicker:
		switch m.String() {
		case "esc":
			a.modal = modalNone
		case "up", "k":
			a.pick = max(a.pick-1, 0)
		case "down", "j":
			a.pick = min(a.pick+1, len(a.options)-1)
		case "enter":
			a.modal = modalNone
			if tx, ok := a.selected(); ok {
				return a, a.setCategoryCmd(tx.ID, a.options[a.pick].id)
			}
		}
	}
	return a, nil
}

func (a *App) selected() (repository.Transaction, bool) {
	if a.cursor < 0 || a.cursor >= len(a.pending) {
		return repository.Transaction{}, false
	}
	return a.pending[a.cursor], true
}

// commands
func (a *App) approveCmd(id string) tea.Cmd {
	return func() tea.Msg {
		n, err := a.services.Actions.ApproveTransactions(a.ctx, a.userID, repository.TransactionFilters{
			ID:     id,
			Status: repository.StatusPendingReview,
		})
		if err != nil {
			return errMsg{err}
		}
		return resolvedMsg(fmt.Sprintf("approved %d", n))
	}
}

func (a *App) approveAllCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := a.services.Actions.ApproveTransactions(a.ctx, a.userID, repository.TransactionFilters{
			Status: repository.StatusPendingReview,
		})
		if err != nil {
			return errMsg{err}
		}
		return resolvedMsg(fmt.Sprintf("approved %d", n))
	}
}

func (a *App) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		n, err := a.services.Actions.DeleteTransactions(a.ctx, a.userID, repository.TransactionFilters{ID: id})
		if err != nil {
			return errMsg{err}
		}
		return resolvedMsg(fmt.Sprintf("deleted %d", n))
	}
}

func (a *App) setCategoryCmd(txID string, categoryID *string) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Categories.SetCategory(a.ctx, a.userID, txID, categoryID); err != nil {
			return errMsg{err}
		}
		return resolvedMsg("category set to " + a.categoryLabel(categoryID))
	}
}

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	reasonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

func (a *App) View() string {
	body := a.renderQueue()
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

func (a *App) renderQueue() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Review queue - %s (%d pending)", a.userLabel, len(a.pending))) + "\n")
	if len(a.pending) == 0 {
		b.WriteString("Nothing to review.\n")
	}
	for i, t := range a.pending {
		marker := " "
		if i == a.cursor {
			marker = ">"
		}
		line := fmt.Sprintf("%s %s  %-32s %12s  %-20s", marker, t.Date, truncate(t.MerchantNormalized, 32), t.Amount.StringFixed(2), a.categoryLabel(t.CategoryID))
		if i == a.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		if t.ImportErrorReason != nil {
			b.WriteString("  " + reasonStyle.Render(*t.ImportErrorReason))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("[j/k] Move  [a] Approve  [A] Approve all  [x] Delete  [c] Category  [r] Reload  [q] Quit"))
	if a.status != "" {
		b.WriteString("\n" + a.status)
	}
	return b.String()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalCategoryPicker:
		tx, _ := a.selected()
		var b strings.Builder
		b.WriteString(titleStyle.Render("Category for "+tx.MerchantNormalized) + "\n")
		for i, opt := range a.options {
			line := "  " + opt.label
			if i == a.pick {
				line = selectedStyle.Render("> " + opt.label)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("[j/k] Move  [enter] Assign  [esc] Cancel"))
		return b.String()
	case modalConfirmDelete:
		tx, _ := a.selected()
		return titleStyle.Render("Delete transaction?") + fmt.Sprintf("\n%s %s %s\n[y] Yes  [n] No", tx.Date, tx.MerchantNormalized, tx.Amount.StringFixed(2))
	default:
		return ""
	}
}

func (a *App) categoryLabel(id *string) string {
	if id == nil {
		return "[uncategorized]"
	}
	if name, ok := a.categoryName[*id]; ok && name != "" {
		return name
	}
	return *id
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
