package model

import "strings"

// Identity is what the external identity provider supplies for the current
// learner. UserID is empty for unauthenticated (guest) learners; DeviceID is
// the client-supplied fallback used to scope their local-cache records.
type Identity struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	DeviceID    string `json:"device_id"`
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// StorageKey returns the key the progress backends use for this learner.
func (i Identity) StorageKey() string {
	if i.Authenticated() {
		return SanitizeKey(i.UserID)
	}
	return "guest_" + SanitizeKey(i.DeviceID)
}

// SanitizeKey lowercases the identifier and collapses anything outside
// [a-z0-9_-] to underscores so it is safe as a storage key in both backends.
func SanitizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
