package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
)

const previewImage = "preview"

// PDF writes a single A4 page to w holding the rasterized preview, scaled to
// the page width. Images taller than the page are shrunk to fit.
func PDF(p Preview, w io.Writer) error {
	img, err := Rasterize(p)
	if err != nil {
		return fmt.Errorf("rasterize preview: %w", err)
	}
	return embed(img, p.Name, w)
}

func embed(img image.Image, title string, w io.Writer) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode preview png: %w", err)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(previewImage, opts, &buf)

	pageW, pageH := doc.GetPageSize()
	b := img.Bounds()
	width, height := fitWidth(float64(b.Dx()), float64(b.Dy()), pageW, pageH)
	doc.ImageOptions(previewImage, 0, 0, width, height, false, opts, 0, "")

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fitWidth scales an image of imgW x imgH to pageW, keeping the aspect ratio,
// then shrinks it if the height would overflow pageH.
func fitWidth(imgW, imgH, pageW, pageH float64) (float64, float64) {
	w := pageW
	h := w * imgH / imgW
	if h > pageH {
		w = w * pageH / h
		h = pageH
	}
	return w, h
}
