package internal

// ValidationError reports a user-facing validation failure from DTO
// validation. Handlers map it to a 400 response carrying the message.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }
