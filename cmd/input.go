package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// textTerminator ends multi-line input typed into the terminal.
const textTerminator = "."

// stdin is the only reader of standard input. Prompts read through it too, so
// text read ahead for one consumer is not lost to the other.
var stdin = bufio.NewReader(os.Stdin)

// promptInput hands stdin to promptui without letting it close standard input.
func promptInput() io.ReadCloser {
	return io.NopCloser(stdin)
}

func promptLine(label, value string, required bool) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   value,
		AllowEdit: value != "",
		Stdin:     promptInput(),
	}
	if required {
		p.Validate = func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(label))
			}
			return nil
		}
	}

	result, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// confirm asks a yes/no question. Declining is not an error.
func confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true, Stdin: promptInput()}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func selectIndex(label string, items []string) (int, error) {
	return selectIndexAt(label, items, 0)
}

// selectIndexAt is selectIndex with the cursor starting at cursor.
func selectIndexAt(label string, items []string, cursor int) (int, error) {
	p := promptui.Select{
		Label:     label,
		Items:     items,
		Size:      10,
		CursorPos: cursor,
		Stdin:     promptInput(),
	}
	idx, _, err := p.Run()
	return idx, err
}

func selectAction(label string, actions []string) (string, error) {
	p := promptui.Select{
		Label: label,
		Items: actions,
		Size:  len(actions),
		Stdin: promptInput(),
	}
	_, action, err := p.Run()
	return action, err
}

// readText prints the label and collects lines from r until a line holding only
// the terminator or the end of input.
func readText(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s (finish with a line containing only %q or Ctrl-D):\n", label, textTerminator)

	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}

		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == textTerminator {
			break
		}
		if line != "" {
			lines = append(lines, trimmed)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// readInput returns the content of path, "-" meaning standard input. Standard
// input is read to its end, so menus that follow need a terminal to answer them.
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// splitSkills splits a comma separated list.
func splitSkills(line string) []string {
	var skills []string
	for _, skill := range strings.Split(line, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
