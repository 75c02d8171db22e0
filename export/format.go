package export

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Format is the file format of an export.
type Format int

const (
	// Text writes one "x,y,z" line per point.
	Text Format = iota
	// PCD writes a binary point cloud data file.
	PCD
)

// TimeLayout names export files after their start time.
const TimeLayout = "20060102_150405"

func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case PCD:
		return "pcd"
	default:
		return "unknown"
	}
}

// Ext returns the file name extension including the dot.
func (f Format) Ext() string {
	if f == PCD {
		return ".pcd"
	}
	return ".txt"
}

// MIMEType returns the media type of the format.
func (f Format) MIMEType() string {
	if f == PCD {
		return "application/x-pcd"
	}
	return "text/plain"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "txt", "":
		return Text, nil
	case "pcd":
		return PCD, nil
	default:
		return 0, errors.Errorf("unknown export format %q", s)
	}
}

// FileName returns the export file name for the given start time.
func FileName(t time.Time, f Format) string {
	return t.Format(TimeLayout) + f.Ext()
}

// Source is a point store that can serialize itself.
type Source interface {
	WriteText(w io.Writer) (int, error)
	WritePCD(w io.Writer) (int, error)
}

func (f Format) write(src Source, w io.Writer) (int, error) {
	if f == PCD {
		return src.WritePCD(w)
	}
	return src.WriteText(w)
}
