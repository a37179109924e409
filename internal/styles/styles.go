package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.Color("#14B8A6") // teal
	Secondary = lipgloss.Color("#60A5FA") // sky
	Accent    = lipgloss.Color("#FBBF24") // amber

	Success = lipgloss.Color("#22C55E")
	Warning = lipgloss.Color("#FBBF24")
	Error   = lipgloss.Color("#F87171")

	TextPrimary   = lipgloss.Color("#E5E7EB")
	TextSecondary = lipgloss.Color("#A1A1AA")
	TextMuted     = lipgloss.Color("#71717A")
	TextSubtle    = lipgloss.Color("#52525B")

	BgHighlight = lipgloss.Color("#27272A")
	BgChip      = lipgloss.Color("#3F3F46")

	BorderNormal = lipgloss.Color("#3F3F46")
	BorderActive = Primary

	// chroma style for file heads in the import picker
	SyntaxTheme = "monokai"
)

// Panels hold the result list, preview, editor and picker.
var (
	PanelActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderActive).
			Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderNormal).
			Padding(0, 1)
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Subtle = lipgloss.NewStyle().
		Foreground(TextSubtle)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgChip).
		Padding(0, 1)
)

// Mode bar levels and toasts
var (
	StatusInfo = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Background(BgHighlight)

	StatusWarning = StatusInfo.
			Foreground(Warning).
			Bold(true)

	StatusError = StatusInfo.
			Foreground(Error).
			Bold(true)

	ToastSuccess = lipgloss.NewStyle().
			Background(Success).
			Foreground(lipgloss.Color("#052E16")).
			Bold(true).
			Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Background(Error).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

var (
	ListItemSelected = lipgloss.NewStyle().
				Foreground(TextPrimary).
				Background(BgHighlight)

	ListCursor = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Mark is the ✓ of a marked note or a selected file.
	Mark = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	BarText = lipgloss.NewStyle().
		Foreground(TextMuted)
)

// Import picker
var (
	PickerDir = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	PickerFile = lipgloss.NewStyle().
			Foreground(TextPrimary)

	PickerPreview = lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true)
)

// Browse cards
var (
	Card = PanelInactive

	CardFocused = PanelActive.
			BorderForeground(Accent)
)
