package console

import "github.com/fourcorners/opsdesk/internal/identity"

// Session carries the authenticated user through the main menu. There is no
// ambient logged-in state; whoever holds the Session is logged in, and
// dropping it is logout.
type Session struct {
	User *identity.User
}

// LoggedIn reports whether the session carries an authenticated user.
func (s Session) LoggedIn() bool {
	return s.User != nil
}
