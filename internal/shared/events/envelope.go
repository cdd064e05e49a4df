// Package events re-exports the canonical event envelope so context code can
// depend on a stable shared import instead of the versioned contract path.
package events

import (
	contractsv1 "github.com/0xandee/SpeedRunLisk/contracts/gen/events/v1"
)

type Envelope = contractsv1.Envelope
