package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:generate curl -sSfL -o assets/echarts.min.js https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js

//go:embed assets
var assetFS embed.FS

const (
	assetsPrefix = "/assets/"
	echartsFile  = "echarts.min.js"

	// echartsHost serves the script when it was not vendored by go generate.
	echartsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
)

func assetsHandler() http.Handler {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(assetsPrefix, http.FileServerFS(sub))
}

// echartsSrc is the script URL pages load echarts from, preferring the
// embedded copy.
func echartsSrc() string {
	if _, err := fs.Stat(assetFS, "assets/"+echartsFile); err == nil {
		return assetsPrefix + echartsFile
	}
	return echartsHost + echartsFile
}
