package comms

import "github.com/calmisko/centena/game"

// WireError is how an error rides inside a message payload.
type WireError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorCoder interface {
	ErrorCode() string
}

func WrapError(err error) *WireError {
	if err == nil {
		return nil
	}
	we := &WireError{Message: err.Error()}
	if ec, ok := err.(errorCoder); ok {
		we.Code = ec.ErrorCode()
	}
	return we
}

// ReError turns a received WireError back into an error.
func ReError(we *WireError) error {
	if we == nil {
		return nil
	}
	return &game.GameError{Code: we.Code, Msg: we.Message}
}
