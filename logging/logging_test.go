package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	testCases := map[string]struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		"Empty":   {in: "", want: zapcore.InfoLevel},
		"Debug":   {in: "debug", want: zapcore.DebugLevel},
		"Upper":   {in: "WARN", want: zapcore.WarnLevel},
		"Unknown": {in: "verbose", wantErr: true},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			lvl, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && lvl != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, lvl)
			}
		})
	}
}

func TestNew(t *testing.T) {
	l, err := New("debug")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Expected debug level to be enabled")
	}
	if _, err := New("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
