package deck

import "errors"

// ErrNoImagesAvailable is returned when every source is exhausted and the
// assembled pool is empty. It is the only assembly error surfaced to callers;
// per-fetch upstream failures are absorbed and logged.
var ErrNoImagesAvailable = errors.New("no images available from any source")
