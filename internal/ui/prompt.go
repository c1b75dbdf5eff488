package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptForToken asks for an access token when none could be resolved
// from flags, environment, or the config file.
func PromptForToken() (string, error) {
	var token string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Access Token").
				Description("Paste the bearer token from your wardrobe session").
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(token), nil
}

// ConfirmSaveToken asks whether to persist the token to the config file.
func ConfirmSaveToken() (bool, error) {
	var save bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save token?").
				Description("Store it in your config directory so you won't be asked again").
				Affirmative("Yes, save it").
				Negative("No").
				Value(&save),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, nil // Don't save on cancel
	}
	return save, nil
}

// PrintError prints an error line outside the TUI.
func PrintError(msg string) {
	fmt.Println(ErrorStyle.Render("✗ " + msg))
}

// PrintSuccess prints a success line outside the TUI.
func PrintSuccess(msg string) {
	fmt.Println(AccentStyle.Render("✓ " + msg))
}
