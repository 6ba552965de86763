package blp

import "fmt"

// Sentinel errors for fatal, unrecoverable conditions (spec §7). Callers
// should compare with errors.Is, since some are wrapped with context.
var (
	ErrUnsupportedMagic   = fmt.Errorf("blp: unsupported magic")
	ErrUnsupportedVersion = fmt.Errorf("blp: unsupported version")
	ErrUnsupportedEncoding = fmt.Errorf("blp: unsupported encoding")
	ErrUnsupportedAlpha   = fmt.Errorf("blp: unsupported alpha depth")
	ErrInvalidDimensions  = fmt.Errorf("blp: invalid dimensions")
	ErrInvalidMipmapIndex = fmt.Errorf("blp: invalid mipmap index")
	ErrInvalidCoord       = fmt.Errorf("blp: coordinate out of range")
	ErrNoAlphaBand        = fmt.Errorf("blp: sample layout has no alpha band")
	ErrMipmapMissing      = fmt.Errorf("blp: mipmap chunk missing")
	ErrEndOfStream        = fmt.Errorf("blp: unexpected end of stream")
	ErrPaletteRequired    = fmt.Errorf("blp: palette required to encode indexed image")
	ErrTooManyColors      = fmt.Errorf("blp: too many distinct colors for target format")
)

// JpegError wraps a failure from the external JPEG codec (spec §7,
// ExternalJpegError).
type JpegError struct {
	Op  string
	Err error
}

func (e *JpegError) Error() string {
	return fmt.Sprintf("blp: jpeg codec %s: %v", e.Op, e.Err)
}

func (e *JpegError) Unwrap() error { return e.Err }

// wrapf attaches file/operation context to a sentinel error without
// losing errors.Is compatibility.
func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
