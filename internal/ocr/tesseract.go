// Package ocr recovers the written content of text annotations with
// Tesseract.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"pdf-markup/internal/annotation"
)

// minHeight is the height small regions are upscaled to before recognition.
const minHeight = 64

// Engine provides OCR functionality using Tesseract. An Engine is not safe
// for concurrent use.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a new OCR engine for language (e.g. "eng"). A non-empty
// tessdata directory overrides Tesseract's default data path.
func NewEngine(language, tessdata string) (*Engine, error) {
	client := gosseract.NewClient()

	if tessdata != "" {
		if err := client.SetTessdataPrefix(tessdata); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if language == "" {
		language = "eng"
	}
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// RecognizeText returns the handwriting or typed content of a text
// annotation's region image.
func (e *Engine) RecognizeText(t annotation.Text) (string, error) {
	if t.Image == nil {
		return "", fmt.Errorf("text annotation has no image")
	}
	return e.RecognizeImage(t.Image)
}

// RecognizeImage performs OCR on an entire image.
func (e *Engine) RecognizeImage(img image.Image) (string, error) {
	if img.Bounds().Empty() {
		return "", fmt.Errorf("empty image")
	}

	var src bytes.Buffer
	if err := png.Encode(&src, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	mat, err := gocv.IMDecode(src.Bytes(), gocv.IMReadColor)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	processed := preprocess(mat)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return cleanText(text), nil
}

// preprocess upscales, equalizes and binarizes a region so that ink ends up
// dark on a light background.
func preprocess(region gocv.Mat) gocv.Mat {
	var scaled gocv.Mat
	if h := region.Rows(); h < minHeight {
		scale := float64(minHeight) / float64(h)
		scaled = gocv.NewMat()
		gocv.Resize(region, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = region.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{8, 8})
	defer clahe.Close()
	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Annotation ink is sparse; a mostly dark result means it was inverted.
	if white := gocv.CountNonZero(binary); float64(white) < 0.5*float64(binary.Rows()*binary.Cols()) {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}

// cleanText collapses Tesseract's line breaks and runs of blanks into
// single spaces.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
