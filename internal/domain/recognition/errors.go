package recognition

import "errors"

var (
	ErrRecognizerUnavailable = errors.New("face recognition service is not connected")
	ErrInvalidRecognizerKey  = errors.New("invalid recognizer key")
)
