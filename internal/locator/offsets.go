package locator

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zhe.chen/agent-geo-director/internal/modeltext"
	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

// ErrContract marks a model response that violates the locator contract
// (not a JSON array of non-negative integers). Callers degrade it to an
// empty offset list; it never fails a request.
var ErrContract = fmt.Errorf("locator contract violation")

// ParseOffsets parses the model's response text into timestamp offsets. The
// contract is a bare JSON array of non-negative integers; surrounding code
// fences are stripped before parsing.
func ParseOffsets(raw string) ([]types.TimestampOffset, error) {
	text := modeltext.StripCodeFence(raw)

	var nums []json.Number
	if err := json.Unmarshal([]byte(text), &nums); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContract, err)
	}

	offsets := make([]types.TimestampOffset, 0, len(nums))
	for _, n := range nums {
		v, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: non-integer element %q", ErrContract, n.String())
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: negative offset %d", ErrContract, v)
		}
		offsets = append(offsets, types.TimestampOffset(v))
	}
	return offsets, nil
}

// Normalize deduplicates and sorts offsets ascending. Applied regardless of
// what the model returned, and idempotent: normalizing twice yields the same
// sequence.
func Normalize(offsets []types.TimestampOffset) []types.TimestampOffset {
	seen := make(map[types.TimestampOffset]struct{}, len(offsets))
	out := make([]types.TimestampOffset, 0, len(offsets))
	for _, off := range offsets {
		if _, ok := seen[off]; ok {
			continue
		}
		seen[off] = struct{}{}
		out = append(out, off)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
