// Package auth carries the signed-in identity through the app. Sign-in
// itself is handled by the managed provider; components receive an
// explicit Session instead of reading ambient global state.
package auth

import (
	"os"

	"github.com/google/uuid"
)

// Session identifies the user every record is owned by.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
}

// SettingsReader is what LocalSession needs to pin a stable user id.
type SettingsReader interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

const userIDKey = "user_id"

// LocalSession returns the device's session, minting and persisting a
// user id on first run.
func LocalSession(s SettingsReader) (Session, error) {
	uid, err := s.GetSetting(userIDKey)
	if err != nil || uid == "" {
		uid = uuid.NewString()
		if err := s.SetSetting(userIDKey, uid); err != nil {
			return Session{}, err
		}
	}

	name := os.Getenv("USER")
	if name == "" {
		name = "you"
	}
	return Session{UserID: uid, DisplayName: name}, nil
}
