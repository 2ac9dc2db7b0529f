package floodfill

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidParameter is returned for unusable growing parameters.
var ErrInvalidParameter = errors.New("invalid floodfill parameter")

func errInvalidParameterf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidParameter, format, args...)
}

// InvalidInputError is returned when the number of picked points is not NumPicks.
type InvalidInputError struct {
	Count int
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%d points are picked, only %d point floodfill is supported", e.Count, NumPicks)
}

// IndexOutOfRangeError is returned when a picked index does not address a
// point, including any pick on an empty cloud.
type IndexOutOfRangeError struct {
	Index, Len int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("picked index %d out of range (cloud has %d points)", e.Index, e.Len)
}
