package normalize

import (
	"errors"
	"testing"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/localtime"
)

func TestMinutesToChunks(t *testing.T) {
	tests := []struct {
		minutes int
		chunks  int
	}{
		{0, 0},
		{15, 1},
		{30, 2},
		{60, 4},
		{90, 6},
		{480, 32},
	}

	for _, tc := range tests {
		chunks, err := MinutesToChunks(tc.minutes)
		if err != nil {
			t.Errorf("MinutesToChunks(%d) returned error: %v", tc.minutes, err)
			continue
		}
		if chunks != tc.chunks {
			t.Errorf("MinutesToChunks(%d) = %d, expected %d", tc.minutes, chunks, tc.chunks)
		}
	}
}

func TestMinutesToChunksRejectsPartialChunks(t *testing.T) {
	for _, minutes := range []int{1, 7, 10, 20, 44, 59, 61} {
		if _, err := MinutesToChunks(minutes); !errors.Is(err, localtime.ErrInvalidInput) {
			t.Errorf("MinutesToChunks(%d): expected invalid input error, got %v", minutes, err)
		}
	}
}

func TestMinutesToChunksRejectsNegative(t *testing.T) {
	if _, err := MinutesToChunks(-15); !errors.Is(err, localtime.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}
