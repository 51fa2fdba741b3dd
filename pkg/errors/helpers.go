package errors

import (
	"context"
	stderrors "errors"
)

// CheckContext turns a canceled or expired context into a Canceled error
// naming the operation that was about to run.
func CheckContext(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return Wrap(err, Canceled, operation+" canceled")
	}
	return nil
}

// Code extracts the error code from err, or Unknown when err carries none.
func Code(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code()
	}
	return Unknown
}
