package models

// Session is the authenticated identity held by a running client.
// The zero value is the empty session.
type Session struct {
	UserID     string
	Token      string
	IsAdmin    bool
	IsApproved bool
	User       *User
}

func NewSession(token string, u User) Session {
	user := u
	return Session{
		UserID:     u.ID,
		Token:      token,
		IsAdmin:    u.IsAdmin,
		IsApproved: u.IsApproved,
		User:       &user,
	}
}

func (s Session) IsZero() bool {
	return s.Token == ""
}
