package assetcache

import (
	"bytes"
	"io"
	"net/http"
	"strings"
)

// placeholderSVG is the inline vector image served when an image asset has
// no cache entry and the network fetch fails, so offline views render a
// friendly box instead of a broken image.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300"><rect fill="#e8f5e9" width="400" height="300"/><text x="200" y="150" text-anchor="middle" fill="#666" font-size="16">Photo unavailable offline</text></svg>`

// isImagePath reports whether the request path names an image-class asset.
func isImagePath(path string) bool {
	return strings.HasSuffix(path, ".jpg") || strings.HasSuffix(path, ".png")
}

// placeholderResponse synthesizes the offline placeholder for an image
// request.
func placeholderResponse() *http.Response {
	body := []byte(placeholderSVG)
	header := make(http.Header)
	header.Set("Content-Type", "image/svg+xml")

	return &http.Response{
		StatusCode:    http.StatusOK,
		Status:        "200 OK",
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}
