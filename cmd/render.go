package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/resume-tailor/internal/clipboard"
	"github.com/spigell/resume-tailor/internal/experience"
	"github.com/spigell/resume-tailor/internal/inventory"
	"github.com/spigell/resume-tailor/internal/tailor"
)

const (
	checked   = "[x]"
	unchecked = "[ ]"
)

func checkbox(selected bool) string {
	if selected {
		return checked
	}
	return unchecked
}

// matchLabel is the one-line form of a match used in menus.
func matchLabel(m experience.Match, selected bool) string {
	return fmt.Sprintf("%s %s (%s)", checkbox(selected), m.Title, tailor.Badge(m.Similarity))
}

func renderMatches(w io.Writer, ws *tailor.Workspace) {
	matches := ws.Matches()
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matching experiences.")
		return
	}

	fmt.Fprintf(w, "Matching experiences (%d selected):\n", len(ws.Selected()))
	for i, m := range matches {
		fmt.Fprintf(w, "%2d. %s\n", i+1, matchLabel(m, ws.IsSelected(m.ID)))
		fmt.Fprintf(w, "    %s\n", m.Meta())
		if skills := m.ShortSkills(); skills != "" {
			fmt.Fprintf(w, "    %s\n", skills)
		}
	}
}

func renderBullets(w io.Writer, bullets []string, copier *clipboard.Copier) {
	if len(bullets) == 0 {
		fmt.Fprintln(w, "No bullets generated yet.")
		return
	}

	key, copied := copier.Copied()
	fmt.Fprintln(w, "Generated bullets:")
	for i, b := range bullets {
		mark := ""
		if copied && (key == i || key == clipboard.All) {
			mark = "  (copied)"
		}
		fmt.Fprintf(w, "%2d. %s%s\n", i+1, b, mark)
	}
}

func experienceLabel(exp experience.Experience) string {
	label := fmt.Sprintf("%s: %s", exp.Type.Label(), exp.Title)
	if exp.DateRange != "" {
		label = fmt.Sprintf("%s (%s)", label, exp.DateRange)
	}
	return label
}

func renderExperience(w io.Writer, exp experience.Experience) {
	fmt.Fprintln(w, experienceLabel(exp))
	if exp.ID != "" {
		fmt.Fprintf(w, "    id: %s\n", exp.ID)
	}
	if len(exp.Skills) > 0 {
		fmt.Fprintf(w, "    skills: %s\n", strings.Join(exp.Skills, ", "))
	}
	if preview := exp.Preview(); preview != "" {
		fmt.Fprintf(w, "    %s\n", preview)
	}
}

func renderExperiences(w io.Writer, exps []experience.Experience) {
	if len(exps) == 0 {
		fmt.Fprintln(w, "No experiences yet.")
		return
	}
	for _, exp := range exps {
		renderExperience(w, exp)
	}
}

// renderDrafts lists parsed drafts, numbered, flagging the ones that must be
// edited before they can be saved.
func renderDrafts(w io.Writer, drafts []experience.Experience, invalid []inventory.InvalidDraftError) {
	problems := make(map[int]error, len(invalid))
	for _, d := range invalid {
		problems[d.Index] = d.Err
	}

	for i, d := range drafts {
		fmt.Fprintf(w, "%2d. ", i+1)
		renderExperience(w, d)
		if err, ok := problems[i]; ok {
			fmt.Fprintf(w, "    needs editing: %v\n", err)
		}
	}
}

func draftHint(err *inventory.InvalidDraftError) string {
	return fmt.Sprintf("Draft %d (%s) cannot be saved: %v. Choose %q to fix it.", err.Index+1, err.Title, err.Err, ImportEdit)
}
