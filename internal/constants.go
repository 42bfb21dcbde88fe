package internal

type uiTheme struct {
	PrimaryColor   string
	SecondaryColor string
	ErrorColor     string
	TertiaryColor  string
	// ProgressGradient runs from the empty to the full end of a bar
	ProgressGradient [2]string
}

var Theme = uiTheme{
	PrimaryColor:     "75",      // Brighter blue
	SecondaryColor:   "#ccc",    // Light gray
	ErrorColor:       "#FF5F5F", // Red
	TertiaryColor:    "#666666", // Dim gray for hints
	ProgressGradient: [2]string{"#5956e0", "#e86ef6"},
}
