package tapdelay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/justyntemme/tapdelay/pkg/framework/param"
)

// Editor sizes
const (
	DefaultWidth  = 480
	DefaultHeight = 240
	MinWidth      = 240
	MinHeight     = 120
	MaxWidth      = 1920
	MaxHeight     = 960
)

var (
	backgroundColor = color.RGBA{R: 0x1e, G: 0x22, B: 0x2a, A: 0xff}
	trackColor      = color.RGBA{R: 0x32, G: 0x38, B: 0x44, A: 0xff}
	valueColor      = color.RGBA{R: 0xe0, G: 0x9a, B: 0x3c, A: 0xff}
	labelColor      = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
)

// Editor is a plain view that shows each parameter as a labelled horizontal
// bar.
type Editor struct {
	params *param.Registry
	width  int
	height int
	closed bool
}

// NewEditor creates a view at the default size.
func NewEditor(params *param.Registry) *Editor {
	return &Editor{
		params: params,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
}

// Size returns the current view size.
func (e *Editor) Size() (width, height int) {
	return e.width, e.height
}

// Resize changes the view size within the supported bounds.
func (e *Editor) Resize(width, height int) error {
	if width < MinWidth || width > MaxWidth || height < MinHeight || height > MaxHeight {
		return fmt.Errorf("editor size %dx%d outside %dx%d..%dx%d",
			width, height, MinWidth, MinHeight, MaxWidth, MaxHeight)
	}
	e.width, e.height = width, height
	return nil
}

// Paint draws the view into dst, clipped to the view size.
func (e *Editor) Paint(dst *image.RGBA) {
	if e.closed || dst == nil {
		return
	}
	bounds := image.Rect(0, 0, e.width, e.height).Add(dst.Bounds().Min).Intersect(dst.Bounds())
	draw.Draw(dst, bounds, image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	params := e.params.All()
	if len(params) == 0 {
		return
	}

	pad := e.height / 16
	row := (e.height - pad) / len(params)
	for i, p := range params {
		top := bounds.Min.Y + pad + i*row
		track := image.Rect(bounds.Min.X+pad, top, bounds.Min.X+e.width-pad, top+row-pad)
		track = track.Intersect(bounds)
		if track.Empty() {
			continue
		}
		draw.Draw(dst, track, image.NewUniform(trackColor), image.Point{}, draw.Src)

		fill := track
		fill.Max.X = track.Min.X + int(float64(track.Dx())*p.GetValue())
		draw.Draw(dst, fill, image.NewUniform(valueColor), image.Point{}, draw.Src)

		e.label(dst, track, p.Name+"  "+p.FormatValue(p.GetValue()))
	}
}

// label writes text left-aligned and vertically centred in r when it fits.
func (e *Editor) label(dst *image.RGBA, r image.Rectangle, text string) {
	face := basicfont.Face7x13
	if r.Dy() < face.Height {
		return
	}
	d := font.Drawer{
		Dst:  dst.SubImage(r).(*image.RGBA),
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot:  fixed.P(r.Min.X+face.Width/2, r.Min.Y+(r.Dy()+face.Ascent)/2),
	}
	d.DrawString(text)
}

// Close releases the view. Further Paint calls draw nothing.
func (e *Editor) Close() {
	e.closed = true
}
