package static

import "embed"

// FS - the browser client served at "/".
//
//go:embed web
var FS embed.FS
