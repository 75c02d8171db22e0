package console

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/seqsense/pcaccum/capture"
	"github.com/seqsense/pcaccum/cloud"
	"github.com/seqsense/pcaccum/export"
	"github.com/seqsense/pcaccum/mat"
	"github.com/seqsense/pcaccum/pose"
	"github.com/seqsense/pcaccum/render"
)

type testEnv struct {
	c       *Console
	ctrl    *capture.Controller
	cam     *render.Camera
	ex      *export.Exporter
	dir     string
	renders int
	saved   []export.Result
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	buf := cloud.NewBuffer(100)
	h := pose.NewHistory(pose.DeviceWrtStartOfService, 0, 0)
	h.Add(pose.Pose{
		Timestamp: 1,
		Frame:     pose.DeviceWrtStartOfService,
		Rotation:  [4]float32{0, 0, 0, 1},
		Valid:     true,
	})
	env := &testEnv{
		ctrl: capture.NewController(buf, h),
		cam:  render.NewCamera(),
		dir:  t.TempDir(),
	}
	env.ex = export.New(buf, export.WithDir(env.dir))
	env.c = New(context.Background(), env.ctrl, env.cam, env.ex,
		WithRequestRender(func() { env.renders++ }),
		WithOnSaved(func(r export.Result) { env.saved = append(env.saved, r) }),
	)
	return env
}

func TestConsole(t *testing.T) {
	testCases := map[string]struct {
		cmds    []string
		want    []string
		wantErr error
		anyErr  bool
		renders int
	}{
		"Empty": {
			cmds: []string{""},
			want: []string{""},
		},
		"Toggle": {
			cmds: []string{"accumulate", "accumulate", "realtime", "mode"},
			want: []string{"accumulating", "stopped", "realtime", "realtime"},
		},
		"Stop": {
			cmds: []string{"stop", "mode"},
			want: []string{"stopped", "stopped"},
		},
		"Stats": {
			cmds: []string{"stats"},
			want: []string{"realtime 0 0.000 0 0 0"},
		},
		"Views": {
			cmds:    []string{"first_person", "top_down", "third_person", "reset_view"},
			want:    []string{"first_person", "top_down", "third_person", "third_person"},
			renders: 4,
		},
		"Zoom": {
			cmds:    []string{"zoom 2"},
			want:    []string{""},
			renders: 1,
		},
		"ZoomArgumentNumber": {
			cmds:    []string{"zoom"},
			wantErr: ErrArgumentNumber,
		},
		"ExtraArgument": {
			cmds:    []string{"stop 1"},
			wantErr: ErrArgumentNumber,
		},
		"InvalidArgument": {
			cmds:   []string{"zoom x"},
			anyErr: true,
		},
		"DownsampleWhileRealtime": {
			cmds:    []string{"downsample 0.1"},
			wantErr: capture.ErrNotStopped,
		},
		"DownsampleInvalidLeaf": {
			cmds:    []string{"stop", "downsample 0"},
			wantErr: cloud.ErrInvalidLeafSize,
		},
		"DownsampleEmpty": {
			cmds: []string{"stop", "downsample 0.1"},
			want: []string{"stopped", "0"},
		},
		"InvalidCommand": {
			cmds:    []string{"fly"},
			wantErr: ErrInvalidCommand,
		},
		"SaveWhileRealtime": {
			cmds:    []string{"save"},
			wantErr: capture.ErrNotStopped,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			var got []string
			var err error
			for _, cmd := range tt.cmds {
				var res string
				res, err = env.c.Run(cmd)
				if err != nil {
					break
				}
				got = append(got, res)
			}
			switch {
			case tt.anyErr:
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error '%v', got '%v'", tt.wantErr, err)
				}
				return
			case err != nil:
				t.Fatalf("Unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Unexpected results (-want +got):\n%s", diff)
			}
			if env.renders != tt.renders {
				t.Errorf("Expected %d render requests, got %d", tt.renders, env.renders)
			}
		})
	}
}

func TestConsoleSave(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.c.Run("accumulate"); err != nil {
		t.Fatal(err)
	}
	env.ctrl.OnFrame(cloud.NewFrame([]mat.Vec3{{1, 2, 3}, {1.01, 2, 3}}, 1))
	if _, err := env.c.Run("accumulate"); err != nil {
		t.Fatal(err)
	}
	if res, err := env.c.Run("downsample 0.1"); err != nil || res != "1" {
		t.Fatalf("Expected 1 point after downsampling, got '%s' (%v)", res, err)
	}
	res, err := env.c.Run("save")
	if err != nil {
		t.Fatal(err)
	}
	if res != "saving" {
		t.Errorf("Expected 'saving', got '%s'", res)
	}
	env.ex.Wait()

	if len(env.saved) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(env.saved))
	}
	r := env.saved[0]
	if r.Err != nil {
		t.Fatal(r.Err)
	}
	if r.Points != 1 {
		t.Errorf("Expected 1 point, got %d", r.Points)
	}
	if filepath.Dir(r.Path) != env.dir {
		t.Errorf("Expected file in %s, got %s", env.dir, r.Path)
	}
	if _, err := os.Stat(r.Path); err != nil {
		t.Error(err)
	}
}

func TestCommands(t *testing.T) {
	cmds := Commands()
	if len(cmds) != len(commands) {
		t.Fatalf("Expected %d commands, got %d", len(commands), len(cmds))
	}
	for i := 1; i < len(cmds); i++ {
		if cmds[i-1] >= cmds[i] {
			t.Errorf("Expected sorted names, got %v", cmds)
		}
	}
}
