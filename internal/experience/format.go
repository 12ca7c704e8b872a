package experience

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-tailor/internal/utils"
)

const (
	previewLength   = 150
	maxShownSkills  = 5
	skillsSeparator = ", "
)

// Preview returns the beginning of the content as shown in inventory listings.
func (e *Experience) Preview() string {
	return utils.Truncate(e.Content, previewLength)
}

// Meta returns "type • date range", omitting the date range when empty.
func (m *Match) Meta() string {
	if m.DateRange == "" {
		return string(m.Type)
	}
	return fmt.Sprintf("%s • %s", m.Type, m.DateRange)
}

// ShortSkills lists the first few skills and a "+N" marker for the rest.
func (m *Match) ShortSkills() string {
	shown, rest := utils.Head(m.Skills, maxShownSkills)
	line := strings.Join(shown, skillsSeparator)
	if rest > 0 {
		line = fmt.Sprintf("%s +%d", line, rest)
	}
	return line
}
