package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/m-mizutani/goerr/v2"
)

// RemoteError is a failed AWS call, shown to the user as a banner
type RemoteError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
	case e.Code != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// remoteError classifies err. Cancellations pass through untouched so the
// caller can drop them.
func remoteError(op string, err error) error {
	if err == nil {
		return nil
	}

	var canceled *smithy.CanceledError
	if errors.Is(err, context.Canceled) || errors.As(err, &canceled) {
		return err
	}

	re := &RemoteError{
		Op:      op,
		Message: err.Error(),
		Err:     goerr.Wrap(err, "AWS call failed", goerr.V("op", op)),
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		re.Code = apiErr.ErrorCode()
		re.Message = apiErr.ErrorMessage()
	}
	return re
}
