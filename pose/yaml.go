package pose

import (
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type record struct {
	Timestamp   float64    `yaml:"timestamp"`
	Base        string     `yaml:"base"`
	Translation [3]float32 `yaml:"translation"`
	Rotation    [4]float32 `yaml:"rotation"`
	Valid       *bool      `yaml:"valid"`
}

// DecodeYAML reads a recorded list of device poses and returns them in
// time order. Each entry has a timestamp, translation and rotation
// (x, y, z, w). base defaults to start_of_service and valid to true.
func DecodeYAML(b []byte) ([]Pose, error) {
	var records []record
	if err := yaml.Unmarshal(b, &records); err != nil {
		return nil, errors.Wrap(err, "decoding poses")
	}
	out := make([]Pose, 0, len(records))
	for i, r := range records {
		base := FrameStartOfService
		if r.Base != "" {
			var err error
			if base, err = ParseCoordinateFrame(r.Base); err != nil {
				return nil, errors.Wrapf(err, "pose %d", i)
			}
		}
		out = append(out, Pose{
			Timestamp:   r.Timestamp,
			Frame:       FramePair{Base: base, Target: FrameDevice},
			Translation: r.Translation,
			Rotation:    r.Rotation,
			Valid:       r.Valid == nil || *r.Valid,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out, nil
}
