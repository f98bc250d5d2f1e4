package utils

import (
	"bytes"
	"fmt"
	"image/gif"
	"image/png"
	"strings"
	"time"
)

// MaxBitrate is the highest voice bitrate safe to request on a destination
// guild regardless of its boost tier.
const MaxBitrate = 96000

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// TruncateString shortens a string to length characters, replacing newlines
// and appending an ellipsis when it was cut.
func TruncateString(s string, length int, replaceNewlineWith string) string {
	s = strings.ReplaceAll(s, "\n", replaceNewlineWith)
	if len(s) <= length {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[:length-3] + "...")
}

// ClampBitrate caps a source voice bitrate at the ceiling the destination
// is guaranteed to accept. Zero means "leave at the platform default".
func ClampBitrate(bitrate int) int {
	if bitrate > MaxBitrate {
		return MaxBitrate
	}
	return bitrate
}

// FirstFrame reduces an animated GIF to its first frame encoded as PNG.
// Non-GIF image bytes pass through untouched.
func FirstFrame(image []byte) ([]byte, error) {
	if !bytes.HasPrefix(image, []byte("GIF")) {
		return image, nil
	}

	decoded, err := gif.DecodeAll(bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to decode animated image: %w", err)
	}
	if len(decoded.Image) == 0 {
		return nil, fmt.Errorf("animated image has no frames")
	}

	var out bytes.Buffer
	if err := png.Encode(&out, decoded.Image[0]); err != nil {
		return nil, fmt.Errorf("failed to encode first frame: %w", err)
	}
	return out.Bytes(), nil
}

// FormatDuration renders a duration as a readable English string like
// "1 hour 12 minutes 3 seconds", omitting zero units.
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds <= 0 {
		return "0 seconds"
	}

	units := []struct {
		name    string
		seconds int
	}{
		{"day", 86400},
		{"hour", 3600},
		{"minute", 60},
		{"second", 1},
	}

	var parts []string
	for _, unit := range units {
		value := totalSeconds / unit.seconds
		totalSeconds %= unit.seconds
		if value == 0 {
			continue
		}
		suffix := ""
		if value != 1 {
			suffix = "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s%s", value, unit.name, suffix))
	}
	return strings.Join(parts, " ")
}
