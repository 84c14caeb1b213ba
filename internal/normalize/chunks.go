package normalize

import (
	"errors"
	"fmt"
	"time"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/localtime"
)

// ChunkMinutes is Reclaim's native scheduling unit.
const ChunkMinutes = 15

// ChunkDuration is ChunkMinutes as a time.Duration.
const ChunkDuration = ChunkMinutes * time.Minute

// ErrChunkSizeConflict indicates explicitly supplied minute-denominated
// bounds where the minimum exceeds the maximum. Conflicts that only arise
// after defaulting are repaired instead (the maximum is raised), so this is
// the lone irreconcilable case.
var ErrChunkSizeConflict = errors.New("minimum chunk duration exceeds maximum")

// MinutesToChunks converts a minute count to chunks by exact division.
// A value that is not a whole multiple of ChunkMinutes is rejected, never
// rounded or truncated.
func MinutesToChunks(minutes int) (int, error) {
	if minutes < 0 {
		return 0, fmt.Errorf("%w: duration %d minutes is negative", localtime.ErrInvalidInput, minutes)
	}
	if minutes%ChunkMinutes != 0 {
		return 0, fmt.Errorf("%w: duration %d minutes is not a multiple of %d",
			localtime.ErrInvalidInput, minutes, ChunkMinutes)
	}
	return minutes / ChunkMinutes, nil
}
