package render

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"hstin/palcolormap/colormap"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

type Options struct {
	Width    int
	Height   int
	Quality  int
	Lossless bool
}

// LUTImage draws the colormap bins left to right. A non-positive width
// uses one pixel per bin, a non-positive height one row.
func LUTImage(cm *colormap.Colormap, width, height int) *image.RGBA {
	n := cm.Resolution()
	strip := image.NewRGBA(image.Rect(0, 0, n, 1))

	for i := 0; i < n; i++ {
		c := cm.RGBA((float64(i) + 0.5) / float64(n))

		idx := i * 4
		strip.Pix[idx] = c.R
		strip.Pix[idx+1] = c.G
		strip.Pix[idx+2] = c.B
		strip.Pix[idx+3] = c.A
	}

	if width <= 0 {
		width = n
	}
	if height <= 0 {
		height = 1
	}
	if width == n && height == 1 {
		return strip
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(img, img.Bounds(), strip, strip.Bounds(), draw.Src, nil)
	return img
}

func EncodeLUT(w io.Writer, cm *colormap.Colormap, opts Options) error {
	img := LUTImage(cm, opts.Width, opts.Height)
	options := &webp.Options{Lossless: opts.Lossless, Quality: float32(opts.Quality)}
	return webp.Encode(w, img, options)
}

func WriteLUT(path string, cm *colormap.Colormap, opts Options) error {
	outputDir := filepath.Dir(path)
	if outputDir != "." && outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create LUT file: %w", err)
	}

	if err := EncodeLUT(f, cm, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode LUT: %w", err)
	}
	return f.Close()
}
