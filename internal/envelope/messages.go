package envelope

import "errors"

// User-facing strings for auth failures. Reason codes pick one of the
// first three; every other failure kind collapses to the generic
// service-unavailable message.
const (
	MsgNoUserFound        = "No account was found for those credentials."
	MsgInvalidUserInfo    = "Some of the account information is invalid."
	MsgLoginFailed        = "Login failed, please try again."
	MsgServiceUnavailable = "Service unavailable, please try again later."
)

// UserMessage maps a failure from the auth layer to the string shown to
// the user.
func UserMessage(err error) string {
	var se *ServerError
	if !errors.As(err, &se) {
		return MsgServiceUnavailable
	}

	switch se.Reason() {
	case ReasonNoUserFound:
		return MsgNoUserFound
	case ReasonInvalidUserInfo:
		return MsgInvalidUserInfo
	default:
		return MsgLoginFailed
	}
}
