//go:build !js

// Command viewer is the browser front end of the point cloud capture.
// Build it with GOOS=js GOARCH=wasm and serve it with examples/serve.
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "viewer runs in the browser only: build with GOOS=js GOARCH=wasm")
	os.Exit(1)
}
