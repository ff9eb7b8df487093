package hint

import (
	"errors"
	"fmt"
)

// ErrEmptyFolder means the index holds no images. A failed listing also
// surfaces this way.
var ErrEmptyFolder = errors.New("no images in folder")

// ResolutionError means the picked entry could not be turned into a URL.
type ResolutionError struct {
	Path string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Path, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
