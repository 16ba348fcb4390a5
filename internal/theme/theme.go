package theme

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhrone-predicts/backend/internal/models"
)

// Theme holds the semantic color palette for the dashboard.
type Theme struct {
	Base    lipgloss.Color
	Surface lipgloss.Color
	Border  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// Default is a dark palette with the brand blue as primary.
var Default = Theme{
	Base:    lipgloss.Color("#1B1D23"),
	Surface: lipgloss.Color("#262932"),
	Border:  lipgloss.Color("#474B57"),
	Muted:   lipgloss.Color("#858A99"),
	Text:    lipgloss.Color("#E4E6EB"),
	Primary: lipgloss.Color("#3B82F6"),
	Accent:  lipgloss.Color("#22D3EE"),
	Success: lipgloss.Color("#22C55E"),
	Warning: lipgloss.Color("#EAB308"),
	Error:   lipgloss.Color("#EF4444"),
	Info:    lipgloss.Color("#38BDF8"),
}

// StatusColor maps a settlement status to its badge color.
func (t Theme) StatusColor(s models.Status) lipgloss.Color {
	switch s {
	case models.StatusWon:
		return t.Success
	case models.StatusLost:
		return t.Error
	case models.StatusPending:
		return t.Warning
	default:
		return t.Muted
	}
}

// GradientText applies a horizontal color gradient across each line of text.
func GradientText(text string, from, to lipgloss.Color) string {
	fr, fg, fb := hexToRGB(string(from))
	tr, tg, tb := hexToRGB(string(to))

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		runes := []rune(line)
		n := len(runes)
		if n == 0 {
			result = append(result, "")
			continue
		}

		var sb strings.Builder
		for i, r := range runes {
			t := 0.0
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			cr := uint8(math.Round(float64(fr) + t*float64(int(tr)-int(fr))))
			cg := uint8(math.Round(float64(fg) + t*float64(int(tg)-int(fg))))
			cb := uint8(math.Round(float64(fb) + t*float64(int(tb)-int(fb))))

			color := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", cr, cg, cb))
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(r)))
		}
		result = append(result, sb.String())
	}
	return strings.Join(result, "\n")
}

func hexToRGB(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var r, g, b uint8
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
