package artifact

import "errors"

// Artifact errors
var (
	// ErrNotFound indicates nothing has been stored at the resolved path.
	ErrNotFound = errors.New("artifact not found")

	// ErrDecode indicates the stored bytes could not be decoded into a value.
	ErrDecode = errors.New("artifact decode failed")

	// ErrEncode indicates the value could not be encoded.
	ErrEncode = errors.New("artifact encode failed")

	// ErrMissingMetadata indicates a custom-path output has no "path" metadata.
	ErrMissingMetadata = errors.New("output metadata has no path")

	// ErrInvalidIdentity indicates an output identity cannot be mapped to a unique path.
	ErrInvalidIdentity = errors.New("invalid output identity")

	// ErrInvalidConfig indicates the manager configuration is not usable.
	ErrInvalidConfig = errors.New("invalid artifact configuration")
)

// Error wraps a filesystem or codec failure with the operation and resolved path.
// Kind is one of the package sentinels when the failure is classified.
type Error struct {
	Op   string // "store" or "load"
	Path string // Resolved artifact path
	Kind error  // ErrNotFound, ErrDecode, ErrEncode, or nil
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	msg := e.Op + " " + e.Path
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the classification and the underlying error, so
// errors.Is matches ErrNotFound as well as fs.ErrNotExist.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
