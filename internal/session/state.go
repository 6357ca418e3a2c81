// Package session holds the authentication state shared by the CLI and the web front.
//
// A Store is the single source of truth for the bearer token, the user profile and the
// authenticated/hydrated flags. It is passed explicitly to every component that needs it;
// persistence is attached with Rehydrate.
package session

// Placeholder profile values shown between receiving an OAuth token and
// completing the profile fetch.
const (
	PlaceholderName  = "Loading..."
	PlaceholderEmail = "loading..."
)

// User is the profile record returned by GET /auth/me
type User struct {
	Email             string `json:"email" validate:"required"`
	Name              string `json:"name,omitempty"`
	Role              string `json:"role,omitempty"`
	AvatarURL         string `json:"avatarUrl,omitempty"`
	IsGithubConnected bool   `json:"isGithubConnected,omitempty"`
}

// PlaceholderUser returns the profile used while the real one is being fetched
func PlaceholderUser() *User {
	return &User{Name: PlaceholderName, Email: PlaceholderEmail}
}

// IsPlaceholder reports whether u is the loading placeholder
func (u *User) IsPlaceholder() bool {
	return u != nil && u.Email == PlaceholderEmail && u.Name == PlaceholderName
}

// DisplayName returns the name, falling back to the email
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// State is the persisted part of the session. An empty Token means absent.
type State struct {
	Token           string `json:"token,omitempty"`
	User            *User  `json:"user"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

func (s State) clone() State {
	s.User = s.User.clone()
	return s
}
