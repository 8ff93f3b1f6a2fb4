package shell

import (
	"errors"
	"strings"

	"github.com/nao1215/vncfetch/internal/model"
)

// ErrInvalidChoice is returned when the format menu answer is not 1, 2 or 3.
var ErrInvalidChoice = errors.New("invalid choice")

// menu lists the formats offered by the interactive prompt, in menu order.
var menu = []struct {
	key    string
	label  string
	format model.Format
}{
	{key: "1", label: "HTML file", format: model.FormatHTML},
	{key: "2", label: "JSON file", format: model.FormatJSON},
	{key: "3", label: "XML file", format: model.FormatXML},
}

// ParseChoice maps a menu answer to its format.
func ParseChoice(answer string) (model.Format, error) {
	answer = strings.TrimSpace(answer)
	for _, item := range menu {
		if item.key == answer {
			return item.format, nil
		}
	}
	return 0, ErrInvalidChoice
}

// IsYes reports whether answer means yes: "yes" or "y" in any case.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true
	default:
		return false
	}
}
