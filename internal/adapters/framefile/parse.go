package framefile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/corey/moodlens/internal/ports"
)

// record is the object form of a frame line. Error marks the detector as
// gone: the producing process writes it when its model fails.
type record struct {
	Faces []ports.Face `json:"faces"`
	Error string       `json:"error,omitempty"`
}

// ParseFrame decodes one frame line into faces.
func ParseFrame(data []byte) ([]ports.Face, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var faces []ports.Face
		if err := json.Unmarshal(data, &faces); err != nil {
			return nil, fmt.Errorf("parse frame: %w", err)
		}
		return faces, nil
	case '{':
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse frame: %w", err)
		}
		if rec.Error != "" {
			return nil, fmt.Errorf("%w: detector: %s", ports.ErrCapabilityUnavailable, rec.Error)
		}
		return rec.Faces, nil
	default:
		return nil, fmt.Errorf("parse frame: expected JSON object or array, got %q", clip(data, 32))
	}
}

// EncodeFrame renders faces as one frame line, newline included.
func EncodeFrame(faces []ports.Face) ([]byte, error) {
	if faces == nil {
		faces = []ports.Face{}
	}
	b, err := json.Marshal(record{Faces: faces})
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func clip(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
