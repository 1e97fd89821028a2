// Package web 内嵌页面模板和静态资源
package web

import "embed"

//go:embed templates static
var FS embed.FS
