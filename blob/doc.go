// Package blob passes exported data to the browser. It is built for js/wasm only.
package blob
