package calendar

import "errors"

var (
	// ErrMissingCredentials means no usable credential is stored for the user.
	ErrMissingCredentials = errors.New("no valid access token – calendar not connected")

	// ErrCalendarAuth means the calendar provider rejected the credential.
	// The user has to reconnect.
	ErrCalendarAuth = errors.New("calendar access expired – please reconnect")

	// ErrCalendarDelivery covers every other failure to insert an event.
	ErrCalendarDelivery = errors.New("calendar delivery failed")

	ErrCredentialNotFound = errors.New("credential not found")
	ErrInvalidCredential  = errors.New("invalid credential")
)
