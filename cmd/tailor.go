package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/clipboard"
	"github.com/spigell/resume-tailor/internal/tailor"
)

const (
	ActionToggle     = "Select or unselect an experience"
	ActionSelectAll  = "Select all"
	ActionSelectNone = "Select none"
	ActionGenerate   = "Generate bullets"
	ActionCopyOne    = "Copy a bullet"
	ActionCopyAll    = "Copy all bullets"
	ActionNewSearch  = "New search"
	ActionQuit       = "Quit"
	ActionBack       = "back"
)

var errQuit = errors.New("quit requested")

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Find the experiences matching a job description and generate resume bullets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a := mustApplication()

		if err := a.authenticate(ctx); err != nil {
			return err
		}

		job, err := jobDescription(cmd)
		if err != nil {
			return err
		}

		return a.tailor(ctx, job)
	},
}

func init() {
	tailorCmd.Flags().StringP("job-file", "f", "", "file with the job description; - reads standard input to its end, so menus then need a terminal")
	tailorCmd.Flags().String("job", "", "the job description text")

	rootCmd.AddCommand(tailorCmd)
}

// jobDescription takes the description from flags or asks for it.
func jobDescription(cmd *cobra.Command) (string, error) {
	if text, _ := cmd.Flags().GetString("job"); strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text), nil
	}
	if path, _ := cmd.Flags().GetString("job-file"); path != "" {
		return readInput(path)
	}
	return askJobDescription()
}

func askJobDescription() (string, error) {
	for {
		text, err := readText(stdin, os.Stdout, "Paste the job description")
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
		fmt.Println("The job description is empty.")
	}
}

func (a *application) tailor(ctx context.Context, job string) error {
	ws := tailor.New(a.client, tailor.NotifierFunc(func(message string) {
		fmt.Println(message)
	}), a.logger.Named("tailor"))
	copier := clipboard.New(clipboard.SystemWriter{}, a.logger.Named("clipboard"))

	if err := a.search(ctx, ws, job); err != nil {
		return err
	}

	for {
		action, err := selectAction("What next?", tailorActions(ws))
		if err != nil {
			return err
		}

		err = a.handleTailorAction(ctx, action, ws, copier)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func tailorActions(ws *tailor.Workspace) []string {
	actions := []string{}
	if len(ws.Matches()) > 0 {
		actions = append(actions, ActionToggle, ActionSelectAll, ActionSelectNone, ActionGenerate)
	}
	if len(ws.Bullets()) > 0 {
		actions = append(actions, ActionCopyOne, ActionCopyAll)
	}
	return append(actions, ActionNewSearch, ActionQuit)
}

func (a *application) handleTailorAction(ctx context.Context, action string, ws *tailor.Workspace, copier *clipboard.Copier) error {
	switch action {
	case ActionToggle:
		return toggleMatch(ws)
	case ActionSelectAll:
		ws.SelectAll()
		renderMatches(os.Stdout, ws)
		return nil
	case ActionSelectNone:
		ws.SelectNone()
		renderMatches(os.Stdout, ws)
		return nil
	case ActionGenerate:
		return a.generate(ctx, ws, copier)
	case ActionCopyOne:
		return copyBullet(ws, copier)
	case ActionCopyAll:
		copier.CopyAll(ws.Bullets())
		reportCopy(copier, clipboard.All)
		return nil
	case ActionNewSearch:
		job, err := askJobDescription()
		if err != nil {
			return err
		}
		return a.search(ctx, ws, job)
	case ActionQuit:
		return errQuit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// search runs a search and shows the result. Backend failures are shown and
// the previous matches stay.
func (a *application) search(ctx context.Context, ws *tailor.Workspace, job string) error {
	fmt.Println("Searching...")
	if err := ws.Search(ctx, job); err != nil {
		if !isSessionError(err) {
			fmt.Printf("Search failed: %v\n", err)
		} else if err := a.reauthenticate(ctx, err); err != nil {
			return err
		}
	}

	a.logger.Info("matched experiences", zap.Int("count", len(ws.Matches())), zap.Int("selected", len(ws.Selected())))
	renderMatches(os.Stdout, ws)
	return nil
}

func (a *application) generate(ctx context.Context, ws *tailor.Workspace, copier *clipboard.Copier) error {
	fmt.Println("Generating...")
	err := ws.Generate(ctx)
	switch {
	case errors.Is(err, tailor.ErrEmptySelection):
		fmt.Println("Please select at least one experience.")
		return nil
	case isSessionError(err):
		return a.reauthenticate(ctx, err)
	case err != nil:
		fmt.Printf("Generation failed: %v\n", err)
		return nil
	}

	renderBullets(os.Stdout, ws.Bullets(), copier)
	return nil
}

func toggleMatch(ws *tailor.Workspace) error {
	matches := ws.Matches()
	items := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		items = append(items, matchLabel(m, ws.IsSelected(m.ID)))
	}
	items = append(items, ActionBack)

	idx, err := selectIndex("Choose an experience and press ENTER", items)
	if err != nil {
		return err
	}
	if idx == len(matches) {
		return nil
	}

	ws.Toggle(matches[idx].ID)
	renderMatches(os.Stdout, ws)
	return nil
}

func copyBullet(ws *tailor.Workspace, copier *clipboard.Copier) error {
	bullets := ws.Bullets()
	items := append(append([]string{}, bullets...), ActionBack)

	idx, err := selectIndex("Choose a bullet to copy", items)
	if err != nil {
		return err
	}
	if idx == len(bullets) {
		return nil
	}

	copier.CopyBullet(bullets, idx)
	reportCopy(copier, idx)
	return nil
}

func reportCopy(copier *clipboard.Copier, key int) {
	if copied, ok := copier.Copied(); ok && copied == key {
		fmt.Println("Copied!")
		return
	}
	fmt.Println("Could not copy to the clipboard, see the log for details.")
}
