package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/seqsense/pcgol/pc"
	"go.uber.org/zap/zaptest"

	"github.com/seqsense/pcaccum/cloud"
	"github.com/seqsense/pcaccum/config"
	"github.com/seqsense/pcaccum/mat"
)

const posesYAML = `
- timestamp: 1.0
  translation: [0, 0, 0]
  rotation: [0, 0, 0, 1]
- timestamp: 2.0
  translation: [1, 0, 0]
  rotation: [0, 0, 0, 1]
- timestamp: 2.0
  base: area_description
  translation: [5, 5, 5]
  rotation: [0, 0, 0, 1]
- timestamp: 3.0
  translation: [0, 0, 0]
  rotation: [0, 0, 0, 1]
  valid: false
`

func writeFrames(t *testing.T, dir string, frames map[float64][]mat.Vec3) {
	t.Helper()
	for ts, pp := range frames {
		buf := cloud.NewBuffer(len(pp))
		buf.Append(pp, mat.Ident())
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%.3f.pcd", ts)))
		if err != nil {
			t.Fatal(err)
		}
		if err := pc.Marshal(buf.ToPointCloud(), f); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReplay(t *testing.T) {
	framesDir := t.TempDir()
	outDir := t.TempDir()
	writeFrames(t, framesDir, map[float64][]mat.Vec3{
		1.0: {{0, 0, 1}, {0, 1, 0}},
		2.0: {{0, 0, 1}},
		3.0: {{9, 9, 9}},
	})
	posesPath := filepath.Join(t.TempDir(), "poses.yaml")
	if err := os.WriteFile(posesPath, []byte(posesYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Mode = "accumulating"
	cfg.Export.Dir = outDir
	cfg.Pose.MaxAge = 0

	r := &replayer{
		cfg:    cfg,
		frames: framesDir,
		poses:  posesPath,
		log:    zaptest.NewLogger(t),
	}
	res, stats, err := r.run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Received != 3 || stats.Appended != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if res.Points != 4 {
		t.Errorf("Expected 4 points, got %d", res.Points)
	}

	f, err := os.Open(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	pp, err := cloud.ParseText(f)
	if err != nil {
		t.Fatal(err)
	}
	// Service frame (x, y, z) is stored as (x, z, -y).
	// The invalid pose at 3.0 is skipped and the one at 2.0 is used.
	expected := []mat.Vec3{
		{0, 1, 0}, {0, 0, -1},
		{1, 1, 0},
		{10, 9, -9},
	}
	if diff := cmp.Diff(expected, pp, cmpopts.EquateApprox(0, 1e-5)); diff != "" {
		t.Errorf("Unexpected points (-want +got):\n%s", diff)
	}
}

func TestReplayVoxel(t *testing.T) {
	framesDir := t.TempDir()
	writeFrames(t, framesDir, map[float64][]mat.Vec3{
		1.0: {{0, 0, 1}, {0, 1, 0}},
		2.0: {{0, 0, 1}},
		3.0: {{9, 9, 9}},
	})
	posesPath := filepath.Join(t.TempDir(), "poses.yaml")
	if err := os.WriteFile(posesPath, []byte(posesYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Mode = "accumulating"
	cfg.Export.Dir = t.TempDir()
	cfg.Export.Voxel = 5
	cfg.Pose.MaxAge = 0

	r := &replayer{
		cfg:    cfg,
		frames: framesDir,
		poses:  posesPath,
		log:    zaptest.NewLogger(t),
	}
	res, _, err := r.run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	pp, err := cloud.ParseText(f)
	if err != nil {
		t.Fatal(err)
	}
	expected := []mat.Vec3{
		{1.0 / 3, 2.0 / 3, -1.0 / 3},
		{10, 9, -9},
	}
	if diff := cmp.Diff(expected, pp, cmpopts.EquateApprox(0, 1e-5)); diff != "" {
		t.Errorf("Unexpected points (-want +got):\n%s", diff)
	}
}

func TestReplayRealtime(t *testing.T) {
	framesDir := t.TempDir()
	writeFrames(t, framesDir, map[float64][]mat.Vec3{
		1.0: {{0, 0, 1}, {0, 1, 0}},
		2.0: {{0, 0, 1}},
	})
	posesPath := filepath.Join(t.TempDir(), "poses.yaml")
	if err := os.WriteFile(posesPath, []byte(posesYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Export.Dir = t.TempDir()
	cfg.Export.Format = "pcd"

	r := &replayer{cfg: cfg, frames: framesDir, poses: posesPath, log: zaptest.NewLogger(t)}
	res, _, err := r.run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Points != 1 {
		t.Errorf("Expected only the last frame, got %d points", res.Points)
	}
	if filepath.Ext(res.Path) != ".pcd" {
		t.Errorf("Expected a pcd file, got %s", res.Path)
	}
}

func TestListFrames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10.5.pcd", "2.pcd", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	frames, err := listFrames(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 || frames[0].timestamp != 2 || frames[1].timestamp != 10.5 {
		t.Errorf("Unexpected frames %+v", frames)
	}

	if err := os.WriteFile(filepath.Join(dir, "latest.pcd"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := listFrames(dir); err == nil {
		t.Error("Expected error for a non-numeric frame name")
	}
}

func TestLoadPosesUnknownBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poses.yaml")
	if err := os.WriteFile(path, []byte("- {timestamp: 1, base: moon}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadPoses(path); err == nil {
		t.Error("Expected error for unknown base frame")
	}
}
