package adapter

import "errors"

// ErrInvalidSource is returned by SetMediaSource when the engine cannot open the locator.
// It is fatal for that source: the caller must not proceed to play.
var ErrInvalidSource = errors.New("invalid media source")

// ErrorCodeUnknown is the only code reported through Callback.OnError; the engine
// exposes no finer taxonomy.
const ErrorCodeUnknown = 0

const defaultErrorMessage = "an error occurred"
