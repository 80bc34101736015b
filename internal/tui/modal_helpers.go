package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitleFocused   = styleTitle
	styleTitleUnfocused = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
)

// SplitPaneConfig defines the configuration for a generic split-pane modal
type SplitPaneConfig struct {
	ModalWidth  int
	ModalHeight int

	IsSplitView bool // If false, shows only left pane at full width

	LeftTitle       string
	LeftContent     string
	LeftBorderColor lipgloss.AdaptiveColor
	LeftIsFocused   bool

	RightTitle       string
	RightContent     string
	RightBorderColor lipgloss.AdaptiveColor
	RightIsFocused   bool

	Footer string

	// Left pane share of the width (0.0 to 1.0, default 0.5)
	LeftWidthRatio float64
}

// renderSplitPaneModal renders a generic split-pane modal layout
func renderSplitPaneModal(cfg SplitPaneConfig, totalWidth, totalHeight int) string {
	paneHeight := cfg.ModalHeight - 4 // Account for borders and padding

	var mainView string

	if cfg.IsSplitView {
		ratio := cfg.LeftWidthRatio
		if ratio <= 0 || ratio >= 1 {
			ratio = SplitViewEqual
		}

		listWidth := int(float64(cfg.ModalWidth-SplitPaneBorderWidth) * ratio)
		previewWidth := cfg.ModalWidth - listWidth - SplitPaneBorderWidth

		leftTitleStyle := styleTitleUnfocused
		rightTitleStyle := styleTitleUnfocused
		if cfg.LeftIsFocused {
			leftTitleStyle = styleTitleFocused
		}
		if cfg.RightIsFocused {
			rightTitleStyle = styleTitleFocused
		}

		leftPane := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cfg.LeftBorderColor).
			Width(listWidth).
			Height(paneHeight).
			Padding(0, 1).
			Render(leftTitleStyle.Render(cfg.LeftTitle) + "\n" + cfg.LeftContent)

		rightPane := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cfg.RightBorderColor).
			Width(previewWidth).
			Height(paneHeight).
			Padding(0, 1).
			Render(rightTitleStyle.Render(cfg.RightTitle) + "\n" + cfg.RightContent)

		mainView = lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	} else {
		leftTitleStyle := styleTitleFocused
		if !cfg.LeftIsFocused {
			leftTitleStyle = styleTitleUnfocused
		}

		mainView = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cfg.LeftBorderColor).
			Width(cfg.ModalWidth).
			Height(paneHeight).
			Padding(0, 1).
			Render(leftTitleStyle.Render(cfg.LeftTitle) + "\n" + cfg.LeftContent)
	}

	footer := styleSubtle.Render(cfg.Footer)
	content := lipgloss.JoinVertical(lipgloss.Left, mainView, "\n"+footer)

	return lipgloss.Place(totalWidth, totalHeight, lipgloss.Center, lipgloss.Center, content)
}

// renderDialog renders a small centered box, used for confirmations and notices
func renderDialog(title, body, footer string, border lipgloss.AdaptiveColor, width, totalWidth, totalHeight int) string {
	content := styleTitle.Render(title) + "\n\n" + body
	if footer != "" {
		content += "\n\n" + styleSubtle.Render(footer)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(min(width, max(20, totalWidth-ModalWidthMargin))).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(totalWidth, totalHeight, lipgloss.Center, lipgloss.Center, box)
}
