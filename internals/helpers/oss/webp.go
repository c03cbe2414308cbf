package helper

import (
	"bytes"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/image/draw"
)

type WebPOptions struct {
	Enabled  bool
	MaxW     int
	MaxH     int
	Quality  float32
	Lossless bool
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{MaxW: 1600, MaxH: 1600, Quality: 80}
}

// webpCandidate reports whether a content type is a still image worth
// re-encoding.
func webpCandidate(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: opt.Lossless, Quality: q}); err != nil {
		return nil, pkgerrors.Wrap(err, "encode webp")
	}
	return buf.Bytes(), nil
}

// OptimizeImage re-encodes a still image at path as WebP next to it. Files
// that are not jpeg/png/webp come back unchanged.
func OptimizeImage(path, filename, contentType string, opt WebPOptions) (string, string, string, error) {
	if !opt.Enabled || !webpCandidate(contentType) {
		return path, filename, contentType, nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", "", pkgerrors.Wrap(err, "decode image")
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	data, err := encodeWebP(img, opt)
	if err != nil {
		return "", "", "", err
	}
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".webp"
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return "", "", "", pkgerrors.Wrap(err, "write webp")
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".webp"
	return out, name, "image/webp", nil
}
