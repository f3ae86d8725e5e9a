package tui

// Keybinding constants. Plain letters are left to the inputs, so every
// global action uses a control chord.
const (
	KeyQuit     = "ctrl+c"
	KeyAnalyze  = "ctrl+r"
	KeyStrategy = "ctrl+t"
	KeyNextPane = "ctrl+n"
	KeyPrevPane = "ctrl+p"
	KeySettings = "ctrl+o"
	KeyEsc      = "esc"
)

// HelpView returns a one-line help bar with the global keybindings.
func HelpView() string {
	return StyleHelp.Render("ctrl+n/ctrl+p: switch pane | enter: next field / add task | ctrl+r: analyze | ctrl+t: strategy | ctrl+o: settings | ctrl+c: quit")
}
