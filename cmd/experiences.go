package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-tailor/internal/api"
	"github.com/spigell/resume-tailor/internal/experience"
	"github.com/spigell/resume-tailor/internal/gate"
	"github.com/spigell/resume-tailor/internal/inventory"
)

const (
	FormSave    = "Save"
	FormEdit    = "Edit again"
	FormDiscard = "Discard"

	outputText = "text"
	outputYAML = "yaml"
)

var experiencesCmd = &cobra.Command{
	Use:     "experiences",
	Aliases: []string{"exp"},
	Short:   "Manage the experiences the bullets are generated from",
}

var experiencesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored experiences",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		_, m, err := inventoryApp(ctx)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		switch output {
		case outputYAML:
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(m.Items())
		case outputText, "":
			renderExperiences(os.Stdout, m.Items())
			return nil
		default:
			return fmt.Errorf("unknown output format: %s", output)
		}
	},
}

var experiencesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new experience",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, m, err := inventoryApp(ctx)
		if err != nil {
			return err
		}

		return a.editForm(ctx, inventory.NewForm(), func(form *inventory.Form) error {
			_, err := m.Save(ctx, form)
			return err
		})
	},
}

var experiencesEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a stored experience",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, m, err := inventoryApp(ctx)
		if err != nil {
			return err
		}

		exp, err := chooseExperience(m, args)
		if err != nil || exp == nil {
			return err
		}

		return a.editForm(ctx, inventory.EditForm(*exp), func(form *inventory.Form) error {
			_, err := m.Save(ctx, form)
			return err
		})
	},
}

var experiencesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored experience",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, m, err := inventoryApp(ctx)
		if err != nil {
			return err
		}

		exp, err := chooseExperience(m, args)
		if err != nil || exp == nil {
			return err
		}

		var ask inventory.ConfirmFunc = confirm
		if yes, _ := cmd.Flags().GetBool("yes"); yes {
			ask = nil
		}

		err = a.deleteExperience(ctx, m, exp.ID, ask)
		switch {
		case errors.Is(err, inventory.ErrDeleteCancelled):
			fmt.Println("Nothing deleted.")
			return nil
		case err != nil:
			return err
		}

		fmt.Printf("Deleted %q, %d experiences left.\n", exp.Title, m.Len())
		return nil
	},
}

func init() {
	experiencesListCmd.Flags().StringP("output", "o", outputText, "output format: text or yaml")
	experiencesDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	experiencesCmd.AddCommand(experiencesListCmd, experiencesAddCmd, experiencesEditCmd, experiencesDeleteCmd)
	rootCmd.AddCommand(experiencesCmd)
}

// inventoryApp signs in and loads the inventory.
func inventoryApp(ctx context.Context) (*application, *inventory.Manager, error) {
	a := mustApplication()
	if err := a.authenticate(ctx); err != nil {
		return nil, nil, err
	}

	m, err := a.loadInventory(ctx)
	if err != nil {
		return nil, nil, err
	}
	return a, m, nil
}

// loadInventory fetches the inventory. Refresh only logs failures, so a
// rejected session shows up as the holder being signed out: the user is told,
// signs in again and the list is fetched once more.
func (a *application) loadInventory(ctx context.Context) (*inventory.Manager, error) {
	m := inventory.New(a.client, a.logger.Named("inventory"))

	for i := 1; ; i++ {
		m.Refresh(ctx)
		if gate.Current(a.holder) == gate.Authenticated {
			return m, nil
		}
		if i == sessionAttempts {
			return nil, api.ErrSessionExpired
		}
		if err := a.reauthenticate(ctx, api.ErrSessionExpired); err != nil {
			return nil, err
		}
	}
}

// deleteExperience deletes after confirmation. A rejected session sends the
// user through sign-in and the deletion is tried again.
func (a *application) deleteExperience(ctx context.Context, m *inventory.Manager, id string, ask inventory.ConfirmFunc) error {
	for i := 1; ; i++ {
		err := m.Delete(ctx, id, ask)
		if !isSessionError(err) || i == sessionAttempts {
			return err
		}
		if err := a.reauthenticate(ctx, err); err != nil {
			return err
		}
	}
}

// chooseExperience finds the experience by id or lets the user pick one.
// A nil experience without error means the user went back.
func chooseExperience(m *inventory.Manager, args []string) (*experience.Experience, error) {
	if len(args) == 1 {
		exp := m.Find(args[0])
		if exp == nil {
			return nil, fmt.Errorf("there is no experience with id %s", args[0])
		}
		return exp, nil
	}

	items := m.Items()
	if len(items) == 0 {
		fmt.Println("No experiences yet.")
		return nil, nil
	}

	labels := make([]string, 0, len(items)+1)
	for _, exp := range items {
		labels = append(labels, experienceLabel(exp))
	}
	labels = append(labels, ActionBack)

	idx, err := selectIndex("Choose an experience and press ENTER", labels)
	if err != nil {
		return nil, err
	}
	if idx == len(items) {
		return nil, nil
	}

	exp := items[idx]
	return &exp, nil
}

// editForm fills the form in and saves it. On a failed save the error is shown
// and the form stays open with everything typed so far.
func (a *application) editForm(ctx context.Context, form *inventory.Form, save func(*inventory.Form) error) error {
	if err := fillForm(form); err != nil {
		return err
	}

	for {
		if err := form.Validate(); err != nil {
			fmt.Printf("Invalid experience: %v\n", err)
			if err := fillForm(form); err != nil {
				return err
			}
			continue
		}

		action, err := selectAction("Save this experience?", []string{FormSave, FormEdit, FormDiscard})
		if err != nil {
			return err
		}

		switch action {
		case FormDiscard:
			return nil
		case FormEdit:
			if err := fillForm(form); err != nil {
				return err
			}
			continue
		}

		err = save(form)
		if err == nil {
			fmt.Println("Saved.")
			return nil
		}
		if isSessionError(err) {
			if err := a.reauthenticate(ctx, err); err != nil {
				return err
			}
			continue
		}
		fmt.Printf("Saving failed: %v\n", err)
	}
}

// fillForm prompts for every field, offering the current values.
func fillForm(form *inventory.Form) error {
	labels := make([]string, 0, len(experience.Types))
	current := 0
	for i, t := range experience.Types {
		labels = append(labels, t.Label())
		if t == form.Type {
			current = i
		}
	}

	idx, err := selectIndexAt("Type", labels, current)
	if err != nil {
		return err
	}
	form.Type = experience.Types[idx]

	if form.Title, err = promptLine("Title", form.Title, true); err != nil {
		return err
	}
	if form.DateRange, err = promptLine("Date range (optional)", form.DateRange, false); err != nil {
		return err
	}

	skills, err := promptLine("Skills, comma separated", strings.Join(form.Skills, ", "), false)
	if err != nil {
		return err
	}
	form.Skills = []string{}
	for _, skill := range splitSkills(skills) {
		form.AddSkill(skill)
	}

	if form.Content != "" {
		fmt.Printf("Current description:\n%s\n", form.Content)
		keep, err := confirm("Keep the description")
		if err != nil {
			return err
		}
		if keep {
			return nil
		}
	}

	form.Content, err = readText(stdin, os.Stdout, "Description")
	return err
}
