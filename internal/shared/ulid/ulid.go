package ulid

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. ULIDs carry a millisecond time
// component plus a random suffix, so they sort by creation time and are
// unique within the process.
var NewULID = func() string {
	return ulid.Make().String()
}
