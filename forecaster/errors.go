package forecaster

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFitted is returned by prediction methods before a successful Fit.
	ErrNotFitted = errors.New("forecaster is not fitted yet, call Fit before predicting")
	// ErrIntervalsUnsupported is returned by PredictInterval when the
	// regressor does not implement IntervalPredictor.
	ErrIntervalsUnsupported = errors.New("regressor does not support prediction intervals")
)

// InvalidInputError reports caller input rejected before reaching the
// regressor.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return e.Msg
}

// Is makes errors.Is(err, ErrInvalidInput) hold.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(format string, args ...any) error {
	return &InvalidInputError{Msg: fmt.Sprintf(format, args...)}
}
