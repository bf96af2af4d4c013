package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService prepares cover art images for saving next to the tracks.
type ImageService struct {
	quality int
}

// NewImageService creates an ImageService that encodes JPEG at quality 90.
func NewImageService() *ImageService {
	return &ImageService{quality: 90}
}

// PrepareCover decodes an image (JPEG or PNG), scales it down to fit within
// maxSize x maxSize when it is larger, and returns it JPEG-encoded.
//
// A maxSize of zero or less disables scaling; the image is only re-encoded.
// Catmull-Rom is used for scaling.
func (s *ImageService) PrepareCover(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if maxSize > 0 {
		width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxSize)
		if width != bounds.Dx() || height != bounds.Dy() {
			dst := image.NewRGBA(image.Rect(0, 0, width, height))
			draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
			img = dst
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitWithin returns the largest dimensions no bigger than maxSize on either
// side that keep the width/height ratio. Dimensions already within bounds are
// returned unchanged.
func fitWithin(width, height, maxSize int) (int, int) {
	if width <= maxSize && height <= maxSize {
		return width, height
	}
	if width >= height {
		return maxSize, max(1, height*maxSize/width)
	}
	return max(1, width*maxSize/height), maxSize
}
