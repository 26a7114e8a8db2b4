package geo

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// ReadAndEncodeFrame reads a captured frame from disk and returns its base64
// encoding plus the detected media type.
func ReadAndEncodeFrame(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read frame: %w", err)
	}

	mediaType := detectMediaType(path)
	encoded := base64.StdEncoding.EncodeToString(data)
	return encoded, mediaType, nil
}

// DataURL formats an encoded image as a data: URL for providers that take
// image content inline.
func DataURL(encoded, mediaType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mediaType, encoded)
}

// detectMediaType returns the media type based on file extension.
func detectMediaType(path string) string {
	lower := strings.ToLower(path)

	if strings.HasSuffix(lower, ".png") {
		return "image/png"
	}
	if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
		return "image/jpeg"
	}
	if strings.HasSuffix(lower, ".webp") {
		return "image/webp"
	}

	// Frames are written as JPEG; default accordingly.
	return "image/jpeg"
}
