package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/seqsense/pcaccum/pose"
)

func loadPoses(path string) ([]pose.Pose, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading poses")
	}
	pp, err := pose.DecodeYAML(b)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return pp, nil
}
