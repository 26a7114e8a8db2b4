package pipeline

import "fmt"

// Stage identifies where in the pipeline a run stopped.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageLocate  Stage = "locate"
	StageSample  Stage = "sample"
	StageExtract Stage = "extract"
)

// NoLocationsError is the legitimate empty-result outcome: some stage
// produced nothing to carry forward, so the run short-circuited. It is a
// "not found"-class result, distinct from download or server failures.
type NoLocationsError struct {
	Stage Stage
}

func (e *NoLocationsError) Error() string {
	return fmt.Sprintf("no locations found (stage %s)", e.Stage)
}

// CapturedFrames reports whether frames had already been captured when the
// run stopped. The HTTP surface words its "not found" response differently
// for the two cases.
func (e *NoLocationsError) CapturedFrames() bool {
	return e.Stage == StageExtract
}
