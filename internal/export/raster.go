package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Layout constants in unscaled pixels.
const (
	canvasWidth = 600
	margin      = 24
	lineHeight  = 18
	fontSize    = 11
	// Scale is applied after layout so the PDF stays sharp when zoomed.
	Scale = 2
	// maxHeight bounds the scaled image; fpdf keeps the whole PNG in memory.
	maxHeight = 16000
)

var ErrPreviewTooLarge = errors.New("workout preview too large to render")

var (
	ink   = image.NewUniform(color.Black)
	muted = image.NewUniform(color.Gray{Y: 0x60})
	rule  = color.Gray{Y: 0xc8}
	// Column offsets for set, reps, weight and rest.
	columns = [4]int{0, 70, 200, 330}
)

var parseFonts = sync.OnceValues(func() ([2]*opentype.Font, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return [2]*opentype.Font{}, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return [2]*opentype.Font{}, fmt.Errorf("parse bold font: %w", err)
	}
	return [2]*opentype.Font{regular, bold}, nil
})

// faces holds the regular and bold faces of one render. opentype faces
// cache glyphs and must not be shared between goroutines.
type faces struct {
	regular font.Face
	bold    font.Face
}

func newFaces() (faces, error) {
	fonts, err := parseFonts()
	if err != nil {
		return faces{}, err
	}
	opts := &opentype.FaceOptions{Size: fontSize, DPI: 72, Hinting: font.HintingFull}
	regular, err := opentype.NewFace(fonts[0], opts)
	if err != nil {
		return faces{}, err
	}
	bold, err := opentype.NewFace(fonts[1], opts)
	if err != nil {
		regular.Close()
		return faces{}, err
	}
	return faces{regular: regular, bold: bold}, nil
}

func (f faces) pick(bold bool) font.Face {
	if bold {
		return f.bold
	}
	return f.regular
}

func (f faces) Close() {
	f.regular.Close()
	f.bold.Close()
}

type line struct {
	text   string
	indent int
	bold   bool
	muted  bool
	rule   bool
	cells  *[4]string
}

// Rasterize draws the preview to an RGBA image on a white background.
func Rasterize(p Preview) (*image.RGBA, error) {
	ff, err := newFaces()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	defer ff.Close()

	lines := layout(ff, p)
	height := margin*2 + len(lines)*lineHeight
	if height*Scale > maxHeight {
		return nil, fmt.Errorf("%w: %d lines", ErrPreviewTooLarge, len(lines))
	}

	src := image.NewRGBA(image.Rect(0, 0, canvasWidth, height))
	draw.Draw(src, src.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: src}
	for i, ln := range lines {
		baseline := margin + (i+1)*lineHeight - 5
		if ln.rule {
			y := baseline - lineHeight/2
			for x := margin; x < canvasWidth-margin; x++ {
				src.Set(x, y, rule)
			}
			continue
		}
		d.Face = ff.pick(ln.bold)
		d.Src = ink
		if ln.muted {
			d.Src = muted
		}
		if ln.cells != nil {
			for c, text := range ln.cells {
				drawText(d, text, margin+ln.indent+columns[c], baseline)
			}
			continue
		}
		x := margin + ln.indent
		if ln.indent < 0 {
			x = (canvasWidth - font.MeasureString(d.Face, ln.text).Ceil()) / 2
		}
		drawText(d, ln.text, x, baseline)
	}

	dst := image.NewRGBA(image.Rect(0, 0, canvasWidth*Scale, height*Scale))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}

func drawText(d *font.Drawer, text string, x, y int) {
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func layout(ff faces, p Preview) []line {
	wrapAt := canvasWidth - 2*margin

	var out []line
	out = append(out, line{text: p.Name, indent: -1, bold: true})
	for _, l := range wrap(ff.regular, p.Description, wrapAt) {
		out = append(out, line{text: l, indent: -1})
	}
	out = append(out, line{})

	out = append(out, line{text: "Workout type:", bold: true}, line{text: p.Type})
	out = append(out, line{text: "Muscle groups:", bold: true}, line{text: strings.Join(p.MuscleGroups, ", ")})
	out = append(out, line{text: "Notes:", bold: true})
	for _, l := range wrap(ff.regular, p.Notes, wrapAt) {
		out = append(out, line{text: l})
	}
	out = append(out, line{}, line{text: "Exercises:", bold: true})

	const indent = 20
	for _, t := range p.Tables {
		out = append(out, line{text: strconv.Itoa(t.Position) + ". " + t.Exercise, bold: true})
		for _, l := range wrap(ff.regular, t.Description, wrapAt-indent) {
			out = append(out, line{text: l, indent: indent, muted: true})
		}
		out = append(out, line{indent: indent, bold: true, cells: &[4]string{"Set", "Reps", "Weight (kg)", "Rest (s)"}})
		for _, r := range t.Rows {
			out = append(out, line{indent: indent, cells: &[4]string{r.Set, r.Reps, r.Weight, r.Rest}})
		}
		out = append(out, line{rule: true})
	}
	return out
}

// wrap breaks s on word boundaries into lines no wider than width pixels.
// A single word wider than width gets a line of its own.
func wrap(face font.Face, s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if font.MeasureString(face, cur+" "+w).Ceil() > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}
