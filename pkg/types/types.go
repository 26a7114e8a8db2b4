package types

// VideoReference is an opaque locator for a remote video, supplied by the
// caller and passed through the pipeline unmodified.
type VideoReference string

// TimestampOffset is a whole-second mark into a video's timeline.
type TimestampOffset int

// CapturedFrame is one raster image sampled from the video, written into the
// request workspace. The file lives only for the duration of the request.
type CapturedFrame struct {
	Path   string
	Offset TimestampOffset
}

// LocationRecord is the minimal extracted fact: a place name plus optional
// coordinates. Latitude/Longitude are nil when the model could not determine
// them; a record with an empty name is invalid and never reaches the caller.
type LocationRecord struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// PipelineResult is the ordered output of one pipeline run. Records appear in
// discovery order; duplicates across frames are passed through as distinct
// entries.
type PipelineResult struct {
	Locations []LocationRecord `json:"locations"`
}
