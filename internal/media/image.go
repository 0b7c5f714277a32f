package media

import (
	"bytes"
	"fmt"
	"image"
	"path"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/gambo89/gambo-room/internal/engine/texture"
)

// DecodeImage decodes a still image asset into RGBA.
// PNG, JPEG and BMP decode through image.Decode; TGA has its own decoder.
func DecodeImage(data []byte, assetPath string) (*image.RGBA, error) {
	if strings.ToLower(path.Ext(assetPath)) == ".tga" {
		img, err := texture.DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrAssetLoad, assetPath, err)
		}
		return texture.ImageToRGBA(img), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetLoad, assetPath, err)
	}
	return texture.ImageToRGBA(img), nil
}
