// Package gl draws the scene with WebGL2 in the browser.
// Everything but the shader sources is built for js/wasm only.
package gl
