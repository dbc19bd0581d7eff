package qrgen

import (
	"encoding/base64"
	"strings"
)

// DataURI renders the image as a "data:" URI suitable for embedding
// directly in an <img> src attribute.
func (img *EncodedImage) DataURI() string {
	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(img.MIME)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(img.PNG))
	return b.String()
}
