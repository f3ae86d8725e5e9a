package analysis

import "fmt"

// ErrorKind classifies why an analysis request could not produce results.
type ErrorKind int

const (
	KindMalformedBulkInput ErrorKind = iota + 1 // bulk text is not valid JSON
	KindBulkInputNotArray                       // bulk JSON decoded to something other than an array
	KindNoTasksToAnalyze                        // resolved payload is empty
	KindRemoteError                             // scoring service answered with a non-2xx status
	KindNetworkError                            // request never got a response
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedBulkInput:
		return "MalformedBulkInput"
	case KindBulkInputNotArray:
		return "BulkInputNotArray"
	case KindNoTasksToAnalyze:
		return "NoTasksToAnalyze"
	case KindRemoteError:
		return "RemoteError"
	case KindNetworkError:
		return "NetworkError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by payload resolution and the scoring client.
// Status and Body are only set for KindRemoteError.
type Error struct {
	Kind   ErrorKind
	Status int
	Body   string
	Err    error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrMalformedBulkInput = &Error{Kind: KindMalformedBulkInput}
	ErrBulkInputNotArray  = &Error{Kind: KindBulkInputNotArray}
	ErrNoTasksToAnalyze   = &Error{Kind: KindNoTasksToAnalyze}
	ErrRemote             = &Error{Kind: KindRemoteError}
	ErrNetwork            = &Error{Kind: KindNetworkError}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindMalformedBulkInput:
		if e.Err != nil {
			return fmt.Sprintf("invalid JSON in bulk input: %v", e.Err)
		}
		return "invalid JSON in bulk input"
	case KindBulkInputNotArray:
		return "bulk JSON must be an array of tasks"
	case KindNoTasksToAnalyze:
		return "no tasks to analyze"
	case KindRemoteError:
		return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
	case KindNetworkError:
		if e.Err != nil {
			return fmt.Sprintf("network error: %v", e.Err)
		}
		return "network error"
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind so callers can compare against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
