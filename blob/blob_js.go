package blob

import (
	"bytes"
	"syscall/js"

	"github.com/seqsense/pcaccum/export"
)

type Blob js.Value

var blobJS = js.Global().Get("Blob")

func New(b []byte, typ string) Blob {
	array := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(array, b)

	return Blob(blobJS.New([]interface{}{array}, map[string]interface{}{
		"type": typ,
	}))
}

func (blob Blob) JS() js.Value {
	return js.Value(blob)
}

// Download lets the browser save the blob under the given file name.
func (blob Blob) Download(name string) {
	url := js.Global().Get("URL").Call("createObjectURL", js.Value(blob))
	doc := js.Global().Get("document")
	a := doc.Call("createElement", "a")
	a.Set("href", url)
	a.Set("download", name)
	doc.Get("body").Call("appendChild", a)
	a.Call("click")
	doc.Get("body").Call("removeChild", a)
	js.Global().Get("URL").Call("revokeObjectURL", url)
}

// Sink hands exports to the browser as file downloads.
type Sink struct {
	Format export.Format
}

func (s Sink) Create(name string) (export.Destination, error) {
	return &destination{name: name, typ: s.Format.MIMEType()}, nil
}

type destination struct {
	bytes.Buffer
	name string
	typ  string
}

func (d *destination) Commit() (string, error) {
	New(d.Bytes(), d.typ).Download(d.name)
	return d.name, nil
}

func (d *destination) Abort() error {
	d.Reset()
	return nil
}
