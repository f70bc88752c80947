package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Result is an encoded image ready for storage.
type Result struct {
	Data        []byte
	Format      string // "png" or "jpeg"
	ContentType string
	Width       int
	Height      int
}

// Processor decodes uploads and shrinks them to fit a bounding box.
type Processor struct {
	quality      int // JPEG quality (1-100)
	maxDimension int // longest side in pixels, 0 disables resizing
}

func NewProcessor(quality, maxDimension int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality:      quality,
		maxDimension: maxDimension,
	}
}

// Process decodes a png or jpeg, resizes it when either side exceeds maxDimension
// and re-encodes it in its original format.
func (p *Processor) Process(data []byte) (*Result, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	bounds := img.Bounds()
	if p.maxDimension > 0 && (bounds.Dx() > p.maxDimension || bounds.Dy() > p.maxDimension) {
		img = p.resize(img, p.maxDimension, p.maxDimension)
	}

	var buf bytes.Buffer
	res := &Result{Format: format, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		res.ContentType = "image/jpeg"
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		res.ContentType = "image/png"
	}
	res.Data = buf.Bytes()
	return res, nil
}

// resize scales img to fit maxWidth x maxHeight keeping the aspect ratio.
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	newWidth = max(newWidth, 1)
	newHeight = max(newHeight, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
