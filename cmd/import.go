package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-tailor/internal/api"
	"github.com/spigell/resume-tailor/internal/inventory"
)

const (
	ImportSaveAll = "Save all drafts"
	ImportSaveOne = "Save one draft"
	ImportEdit    = "Edit a draft"
	ImportRetry   = "Try again"
	ImportClose   = "Close"
)

var experiencesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import experiences from text copied from a LinkedIn profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, m, err := inventoryApp(ctx)
		if err != nil {
			return err
		}

		text, err := importText(cmd)
		if err != nil {
			return err
		}

		imp := m.NewImport()
		defer imp.Close()

		if err := imp.SetText(text); err != nil {
			return err
		}

		return a.runImport(ctx, imp)
	},
}

func init() {
	experiencesImportCmd.Flags().String("experiences-file", "", "file with the Experience section text")
	experiencesImportCmd.Flags().String("projects-file", "", "file with the Projects section text")
	experiencesImportCmd.Flags().String("volunteering-file", "", "file with the Volunteering section text")

	experiencesCmd.AddCommand(experiencesImportCmd)
}

// importText reads the three sections from files, or asks for them when no file is given.
func importText(cmd *cobra.Command) (api.LinkedInText, error) {
	var text api.LinkedInText
	sections := []struct {
		flag   string
		label  string
		target *string
	}{
		{"experiences-file", "Paste the Experience section (may be empty)", &text.Experiences},
		{"projects-file", "Paste the Projects section (may be empty)", &text.Projects},
		{"volunteering-file", "Paste the Volunteering section (may be empty)", &text.Volunteering},
	}

	fromFiles := false
	for _, s := range sections {
		path, _ := cmd.Flags().GetString(s.flag)
		if path == "" {
			continue
		}
		fromFiles = true

		value, err := readInput(path)
		if err != nil {
			return text, err
		}
		*s.target = value
	}

	if fromFiles {
		return text, nil
	}

	for _, s := range sections {
		value, err := readText(stdin, os.Stdout, s.label)
		if err != nil {
			return text, err
		}
		*s.target = value
	}

	return text, nil
}

func (a *application) runImport(ctx context.Context, imp *inventory.Import) error {
	for {
		switch imp.State() {
		case inventory.ImportEmpty:
			if err := a.parseImport(ctx, imp); err != nil {
				return err
			}
		case inventory.ImportReviewing:
			if len(imp.Drafts()) == 0 {
				fmt.Println("Nothing left to review.")
				imp.Close()
				continue
			}
			if err := a.reviewDrafts(ctx, imp); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// parseImport sends the text for parsing. On failure the error is shown and
// the user can try again with the same text or give up.
func (a *application) parseImport(ctx context.Context, imp *inventory.Import) error {
	fmt.Println("Parsing...")
	err := imp.Parse(ctx)
	switch {
	case err == nil:
		fmt.Printf("Found %d experiences.\n", len(imp.Drafts()))
		return nil
	case errors.Is(err, inventory.ErrNoImportText):
		fmt.Println("Paste text in at least one section.")
		imp.Close()
		return nil
	case isSessionError(err):
		return a.reauthenticate(ctx, err)
	}

	fmt.Printf("Parsing failed: %v\n", err)
	action, err := selectAction("What next?", []string{ImportRetry, ImportClose})
	if err != nil {
		return err
	}
	if action == ImportClose {
		imp.Close()
	}
	return nil
}

func (a *application) reviewDrafts(ctx context.Context, imp *inventory.Import) error {
	fmt.Println()
	renderDrafts(os.Stdout, imp.Drafts(), imp.InvalidDrafts())

	action, err := selectAction("Review the parsed experiences", []string{ImportSaveAll, ImportSaveOne, ImportEdit, ImportClose})
	if err != nil {
		return err
	}

	switch action {
	case ImportSaveAll:
		return a.importStep(ctx, imp.SaveAll(ctx), "Saved all drafts.")
	case ImportSaveOne:
		idx, ok, err := chooseDraft(imp)
		if err != nil || !ok {
			return err
		}
		return a.importStep(ctx, imp.SaveDraft(ctx, idx), "Saved.")
	case ImportEdit:
		idx, ok, err := chooseDraft(imp)
		if err != nil || !ok {
			return err
		}
		return a.editDraft(ctx, imp, idx)
	case ImportClose:
		imp.Close()
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// importStep reports the outcome of a save. Backend failures keep the drafts
// and are only shown.
func (a *application) importStep(ctx context.Context, err error, done string) error {
	switch {
	case err == nil:
		fmt.Println(done)
		return nil
	case isSessionError(err):
		return a.reauthenticate(ctx, err)
	}

	var draftErr *inventory.InvalidDraftError
	if errors.As(err, &draftErr) {
		fmt.Println(draftHint(draftErr))
		return nil
	}

	fmt.Printf("Saving failed: %v\n", err)
	return nil
}

// editDraft opens the form for one draft. Discarding the form puts the draft
// back where it was.
func (a *application) editDraft(ctx context.Context, imp *inventory.Import, idx int) error {
	form, err := imp.EditDraft(idx)
	if err != nil {
		return err
	}

	saved := false
	err = a.editForm(ctx, form, func(form *inventory.Form) error {
		if err := imp.SaveEdit(ctx, form); err != nil {
			return err
		}
		saved = true
		return nil
	})
	if !saved {
		imp.CancelEdit()
	}
	return err
}

func chooseDraft(imp *inventory.Import) (int, bool, error) {
	drafts := imp.Drafts()
	labels := make([]string, 0, len(drafts)+1)
	for _, d := range drafts {
		labels = append(labels, experienceLabel(d))
	}
	labels = append(labels, ActionBack)

	idx, err := selectIndex("Choose a draft and press ENTER", labels)
	if err != nil {
		return 0, false, err
	}
	if idx == len(drafts) {
		return 0, false, nil
	}
	return idx, true, nil
}
