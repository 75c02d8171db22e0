package main

import (
	"path"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// manifest describes a recording served next to the viewer.
type manifest struct {
	Poses  string          `yaml:"poses"`
	Frames []manifestFrame `yaml:"frames"`
}

type manifestFrame struct {
	Timestamp float64 `yaml:"timestamp"`
	File      string  `yaml:"file"`
}

// parseManifest decodes a manifest and resolves file names relative to base.
func parseManifest(b []byte, base string) (manifest, error) {
	var m manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return manifest{}, errors.Wrap(err, "decoding manifest")
	}
	if m.Poses == "" {
		return manifest{}, errors.New("manifest has no poses file")
	}
	m.Poses = path.Join(base, m.Poses)
	for i := range m.Frames {
		if m.Frames[i].File == "" {
			return manifest{}, errors.Errorf("frame %d has no file", i)
		}
		m.Frames[i].File = path.Join(base, m.Frames[i].File)
	}
	sort.SliceStable(m.Frames, func(i, j int) bool {
		return m.Frames[i].Timestamp < m.Frames[j].Timestamp
	})
	return m, nil
}
