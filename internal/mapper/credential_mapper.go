package mapper

import (
	"time"

	"github.com/cridiv/Aedar/internal/model"
	"github.com/cridiv/Aedar/pkg/calendar"
)

func CredentialToModel(userID string, cred calendar.Credential) *model.CalendarCredential {
	var expiry *time.Time
	if !cred.Expiry.IsZero() {
		e := cred.Expiry.UTC()
		expiry = &e
	}
	return &model.CalendarCredential{
		UserId:       userID,
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       expiry,
	}
}

func CredentialFromModel(m *model.CalendarCredential) *calendar.Credential {
	if m == nil {
		return nil
	}
	cred := &calendar.Credential{
		AccessToken:  m.AccessToken,
		RefreshToken: m.RefreshToken,
	}
	if m.Expiry != nil {
		cred.Expiry = *m.Expiry
	}
	return cred
}
