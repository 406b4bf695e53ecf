package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art with an optional tagline beneath
// it, both centred for the current terminal width.
func RenderBanner(tagline string) string {
	return renderBanner(termWidth(), tagline)
}

func renderBanner(width int, tagline string) string {
	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")

	artW := 0
	for _, l := range lines {
		artW = max(artW, lipgloss.Width(l))
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.Repeat(" ", centre(width, artW)))
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	if tagline != "" {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", centre(width, lipgloss.Width(tagline))))
		b.WriteString(secondaryStyle.Render(tagline))
		b.WriteByte('\n')
	}
	return b.String()
}

func centre(width, w int) int {
	if width <= w {
		return 0
	}
	return (width - w) / 2
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
