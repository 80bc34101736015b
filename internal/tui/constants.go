package tui

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin       = 6  // Standard horizontal margin (m.width - 6)
	ModalHeightMargin      = 3  // Standard vertical margin (m.height - 3)
	ModalWidthMarginNarrow = 10 // Narrow horizontal margin for focused modals (m.width - 10)
	ModalHeightMarginMed   = 4  // Medium vertical margin (m.height - 4)

	// Viewport Padding and Borders
	ViewportBorderWidth       = 2 // Width consumed by borders
	ViewportPaddingHorizontal = 4 // Horizontal padding (left + right)

	// Content Area Offsets
	ContentOffsetLarge   = 9  // m.height - 9 for modals with footers
	ContentOffsetHelp    = 10 // m.height - 10 for help viewer
	MainViewHeightOffset = 3  // status bar + pane borders
	HelpViewWidthOffset  = 14 // m.width - 14 for help viewport width

	// Pane and form overhead
	ListHeaderLines         = 2  // count + filter line
	FormOverheadLines       = 12 // edit panel: border, padding, title input, labels, footer
	CreateFormOverheadLines = 18 // create form: three inputs plus the edit overhead

	// Split View Ratios
	SplitViewEqual       = 0.5 // Equal 50/50 split for split-pane modals
	SplitPaneBorderWidth = 3   // Border width between split panes

	// Activity log rows loaded into the history modal
	HistoryLoadLimit = 200
)
