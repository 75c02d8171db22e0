package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Sink creates export destinations.
type Sink interface {
	Create(name string) (Destination, error)
}

// Destination receives the exported bytes. Exactly one of Commit or Abort
// is called once writing is over.
type Destination interface {
	Write(p []byte) (int, error)
	// Commit publishes the data and returns where it can be found.
	Commit() (string, error)
	Abort() error
}

// DirSink writes files into a directory. A file only appears under its
// final name once complete, and existing files are never overwritten.
type DirSink struct {
	Dir string
	// Log receives warnings about leftover temporary files. Nil discards them.
	Log *zap.Logger
}

func (s DirSink) Create(name string) (Destination, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating export directory")
	}
	f, err := os.CreateTemp(s.Dir, "."+name+".*.tmp")
	if err != nil {
		return nil, errors.Wrap(err, "creating export file")
	}
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &fileDestination{
		f:      f,
		dir:    s.Dir,
		name:   name,
		log:    log,
		remove: os.Remove,
	}, nil
}

type fileDestination struct {
	f    *os.File
	dir  string
	name string
	log  *zap.Logger

	remove func(name string) error
}

func (d *fileDestination) Write(p []byte) (int, error) {
	return d.f.Write(p)
}

func (d *fileDestination) Commit() (string, error) {
	if err := d.f.Close(); err != nil {
		return "", multierr.Append(
			errors.Wrap(err, "closing export file"),
			d.remove(d.f.Name()),
		)
	}
	path, err := d.link()
	if err != nil {
		return "", multierr.Append(err, d.remove(d.f.Name()))
	}
	// The file is published; a leftover temporary file is not an export failure.
	if err := d.remove(d.f.Name()); err != nil {
		d.log.Warn("failed to remove temporary export file",
			zap.String("path", d.f.Name()),
			zap.Error(err),
		)
	}
	return path, nil
}

// link moves the temporary file to a free name, adding _1, _2, ...
// before the extension on collision.
func (d *fileDestination) link() (string, error) {
	ext := filepath.Ext(d.name)
	base := strings.TrimSuffix(d.name, ext)
	for i := 0; i < 1000; i++ {
		name := d.name
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		path := filepath.Join(d.dir, name)
		if err := os.Link(d.f.Name(), path); err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", errors.Wrap(err, "publishing export file")
		}
		return path, nil
	}
	return "", errors.Errorf("no free file name for %s", d.name)
}

func (d *fileDestination) Abort() error {
	return multierr.Combine(
		d.f.Close(),
		d.remove(d.f.Name()),
	)
}
