package main

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/pc"
	"go.uber.org/multierr"

	"github.com/seqsense/pcaccum/cloud"
)

type frameFile struct {
	path      string
	timestamp float64
}

// listFrames returns the <timestamp>.pcd files of dir in time order.
func listFrames(dir string) ([]frameFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing frames")
	}
	var out []frameFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".pcd" {
			continue
		}
		ts, err := strconv.ParseFloat(strings.TrimSuffix(e.Name(), ".pcd"), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "frame file name %s", e.Name())
		}
		out = append(out, frameFile{
			path:      filepath.Join(dir, e.Name()),
			timestamp: ts,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].timestamp < out[j].timestamp
	})
	return out, nil
}

func readFrame(f frameFile) (_ cloud.Frame, err error) {
	r, err := os.Open(f.path)
	if err != nil {
		return cloud.Frame{}, errors.Wrap(err, "opening frame")
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()
	pp, err := pc.Unmarshal(r)
	if err != nil {
		return cloud.Frame{}, errors.Wrapf(err, "decoding %s", f.path)
	}
	return cloud.FrameFromPointCloud(pp, f.timestamp)
}
