package tui

import (
	"github.com/bugdesk/bugdesk/models"
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo switches the active login-flow page. An optional Payload is
// redelivered to the target page as its own message.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// LoginResult finishes a sign-in attempt. On success RootModel stores the
// user and quits the login flow.
type LoginResult struct {
	User models.User
	Err  error
}

// SignupResult finishes an account-creation attempt.
type SignupResult struct {
	User models.User
	Err  error
}

// SignupSuccessNotice is delivered to the menu page after a successful
// signup.
type SignupSuccessNotice struct {
	Username string
}
