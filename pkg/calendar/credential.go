package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Credential is the OAuth grant a user gave for their calendar.
type Credential struct {
	AccessToken  string    `json:"accessToken" validate:"required"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
}

// Validate rejects credentials that can never authorize a request: an empty
// access token, or one that can neither be refreshed nor tells when it
// expires.
func (c Credential) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if c.RefreshToken == "" && c.Expiry.IsZero() {
		return fmt.Errorf("%w: expiry is required without a refresh token", ErrInvalidCredential)
	}
	return nil
}

// Expired reports whether the access token is past its expiry at now.
func (c Credential) Expired(now time.Time) bool {
	return !c.Expiry.IsZero() && !now.Before(c.Expiry)
}

// Usable reports whether the credential can still authorize a request at now,
// either directly or through a refresh.
func (c Credential) Usable(now time.Time) bool {
	return c.RefreshToken != "" || !c.Expired(now)
}

// Same reports whether two credentials carry the same grant.
func (c Credential) Same(other Credential) bool {
	return c.AccessToken == other.AccessToken &&
		c.RefreshToken == other.RefreshToken &&
		c.Expiry.Equal(other.Expiry)
}

// CredentialStore keeps one credential per user. Implementations must allow
// concurrent access for different users.
type CredentialStore interface {
	Get(ctx context.Context, userID string) (*Credential, error)
	Set(ctx context.Context, userID string, cred Credential) error
	Delete(ctx context.Context, userID string) error
}

// Sink opens delivery sessions against a user's calendar.
type Sink interface {
	Open(ctx context.Context, cred Credential) (Session, error)
}

// Session inserts events with one credential. A token refreshed during the
// session is reused by later inserts and reported by Credential.
type Session interface {
	Insert(ctx context.Context, calendarID string, event Event) (*CreatedEvent, error)
	Credential() Credential
}
