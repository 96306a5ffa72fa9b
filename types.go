package lsiftools

import (
	"github.com/AdeAttwood/LsifTools/internal/protocol"
	"github.com/AdeAttwood/LsifTools/internal/store"
)

// Public type aliases for the internal types used in the QueryBuilder API.
// These are Go type aliases (=) — identical to the internal types at compile
// time, so no conversion is needed on either side.

type Location = store.Location
type ReferenceContext = store.ReferenceContext
type Position = protocol.Position
type Range = protocol.Range
