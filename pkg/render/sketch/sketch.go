package sketch

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
	"github.com/matzehuels/benchdraw/pkg/render"
)

// Defaults used when Options fields are zero.
const (
	DefaultBoxSize  = 40.0
	DefaultPadding  = 40.0
	DefaultFontSize = 11.0

	minWidth  = 240
	minHeight = 120

	// maxSide caps both canvas dimensions; wider layouts are scaled down.
	maxSide = 4096
)

// Options configures sketch rendering.
type Options struct {
	BoxSize  float64
	Padding  float64
	FontSize float64
}

func (o Options) withDefaults() Options {
	if o.BoxSize <= 0 {
		o.BoxSize = DefaultBoxSize
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	return o
}

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func fontFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = truetype.Parse(gomono.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	return truetype.NewFace(fontTTF, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Draw renders snap with delta applied to the selected component. Layouts
// larger than 4096 pixels on a side are scaled down to fit; non-finite
// positions fail with INVALID_INPUT.
func Draw(snap *diagram.Diagram, delta diagram.Delta, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	pos := positions(snap, delta)
	f, err := bounds(pos, opts)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(f.w, f.h)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	face, err := fontFace(opts.FontSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	if len(pos) == 0 {
		dc.SetHexColor("#888888")
		dc.DrawStringAnchored("empty diagram", float64(f.w)/2, float64(f.h)/2, 0.5, 0.5)
		return dc.Image(), nil
	}

	at := func(i int) (float64, float64) {
		return f.at(pos[i])
	}

	for _, e := range render.Paths(snap) {
		x1, y1 := at(e.Source)
		x2, y2 := at(e.Target)
		drawBeam(dc, x1, y1, x2, y2, e.Style)
	}

	for i, c := range snap.Components {
		x, y := at(i)
		drawComponent(dc, c, x, y, opts, i == delta.Selected)
	}
	return dc.Image(), nil
}

// RenderPNG renders d without an active interaction and encodes it as PNG.
func RenderPNG(d *diagram.Diagram, opts Options) ([]byte, error) {
	return encode(d, diagram.NoSelection, opts)
}

func encode(d *diagram.Diagram, delta diagram.Delta, opts Options) ([]byte, error) {
	img, err := Draw(d, delta, opts)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContextForImage(img)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func positions(d *diagram.Diagram, delta diagram.Delta) []diagram.Position {
	pos := make([]diagram.Position, d.Len())
	for i, c := range d.Components {
		pos[i] = c.Position
		if i == delta.Selected {
			pos[i].X += delta.DX
			pos[i].Y += delta.DY
		}
	}
	return pos
}

// frame maps diagram coordinates onto the canvas.
type frame struct {
	minX, minY float64
	scale      float64
	w, h       int
}

func (f frame) at(p diagram.Position) (float64, float64) {
	return (p.X - f.minX) * f.scale, (p.Y - f.minY) * f.scale
}

// bounds returns the frame covering every component center plus padding,
// scaled so that neither side exceeds maxSide.
func bounds(pos []diagram.Position, opts Options) (frame, error) {
	if len(pos) == 0 {
		return frame{scale: 1, w: minWidth, h: minHeight}, nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range pos {
		if !finite(p.X) || !finite(p.Y) {
			return frame{}, errors.New(errors.ErrCodeInvalidInput, "component %d has a non-finite position (%v, %v)", i, p.X, p.Y)
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	pad := opts.Padding + opts.BoxSize/2
	minX -= pad
	minY -= pad
	maxX += pad
	maxY += pad + opts.FontSize*2 // room for the label below

	spanX, spanY := maxX-minX, maxY-minY
	longest := math.Max(spanX, spanY)
	if !finite(longest) {
		return frame{}, errors.New(errors.ErrCodeInvalidInput, "diagram extent is too large to draw")
	}
	scale := 1.0
	if longest > maxSide {
		scale = maxSide / longest
	}

	return frame{
		minX:  minX,
		minY:  minY,
		scale: scale,
		w:     min(maxSide, max(minWidth, int(math.Ceil(spanX*scale)))),
		h:     min(maxSide, max(minHeight, int(math.Ceil(spanY*scale)))),
	}, nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func drawBeam(dc *gg.Context, x1, y1, x2, y2 float64, style string) {
	dc.SetHexColor(render.BeamColor(style))
	switch style {
	case catalog.StyleNarrow:
		dc.SetLineWidth(1.5)
	case catalog.StyleResizable:
		dc.SetLineWidth(3)
		dc.SetDash(6, 4)
	default:
		dc.SetLineWidth(4)
	}
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	dc.SetDash()
}

func drawComponent(dc *gg.Context, c diagram.Component, x, y float64, opts Options, selected bool) {
	s := opts.BoxSize
	family := catalog.Classify(c.Name).Family()

	dc.SetHexColor(render.FamilyColor(family))
	dc.DrawRoundedRectangle(x-s/2, y-s/2, s, s, s/6)
	dc.FillPreserve()
	if selected {
		dc.SetHexColor("#1e66f5")
		dc.SetLineWidth(3)
	} else {
		dc.SetHexColor("#333333")
		dc.SetLineWidth(1)
	}
	dc.Stroke()

	label, ok := c.Label()
	if !ok || label == "" {
		label = c.Name
	}
	dc.SetHexColor("#000000")
	dc.DrawStringAnchored(label, x, y+s/2+opts.FontSize, 0.5, 0.5)
}
