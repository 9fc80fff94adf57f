package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/chai2010/webp"
	"github.com/spf13/viper"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

type Options struct {
	Width, Height int
	Margin        int
	LineWidth     float32
	NodeSize      float32
	Supersample   int
	Background    color.Color
	EdgeColor     color.Color
	NodeColor     color.Color
}

func DefaultOptions() Options {
	return Options{
		Width:       1024,
		Height:      1024,
		Margin:      16,
		LineWidth:   1.5,
		NodeSize:    2,
		Supersample: 2,
		Background:  color.White,
		EdgeColor:   color.RGBA{R: 0x33, G: 0x55, B: 0x99, A: 0xff},
		NodeColor:   color.RGBA{R: 0xcc, G: 0x22, B: 0x22, A: 0xff},
	}
}

// OptionsFromViper DefaultOptions with the canvas size from render.width and
// render.height.
func OptionsFromViper() Options {
	opts := DefaultOptions()
	if w := viper.GetInt(util.ConfigRenderWidth); w > 0 {
		opts.Width = w
	}
	if h := viper.GetInt(util.ConfigRenderHeight); h > 0 {
		opts.Height = h
	}
	return opts
}

// projection maps lon/lat into canvas pixels, north up, keeping aspect.
type projection struct {
	minX, minY float64
	scale      float64
	offX, offY float64
	height     float64
}

func newProjection(bb *da.BoundingBox, width, height, margin float64) projection {
	dx := bb.GetMaxLon() - bb.GetMinLon()
	dy := bb.GetMaxLat() - bb.GetMinLat()
	innerW := width - 2*margin
	innerH := height - 2*margin

	scale := 1.0
	switch {
	case dx > 0 && dy > 0:
		scale = math.Min(innerW/dx, innerH/dy)
	case dx > 0:
		scale = innerW / dx
	case dy > 0:
		scale = innerH / dy
	}

	return projection{
		minX:   bb.GetMinLon(),
		minY:   bb.GetMinLat(),
		scale:  scale,
		offX:   margin + (innerW-dx*scale)/2,
		offY:   margin + (innerH-dy*scale)/2,
		height: height,
	}
}

func (p projection) apply(c da.Coordinate) (float32, float32) {
	x := p.offX + (c.GetX()-p.minX)*p.scale
	y := p.height - (p.offY + (c.GetY()-p.minY)*p.scale)
	return float32(x), float32(y)
}

// Render draws every undirected edge once as a thick line and every node as a
// small square.
func Render(g *da.Graph, opts Options) *image.RGBA {
	ss := max(opts.Supersample, 1)
	w, h := opts.Width*ss, opts.Height*ss

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	if bb := g.GetBoundingBox(); bb != nil {
		proj := newProjection(bb, float64(w), float64(h), float64(opts.Margin*ss))
		lineWidth := opts.LineWidth * float32(ss)
		nodeSize := opts.NodeSize * float32(ss)

		edges := vector.NewRasterizer(w, h)
		g.ForEdges(func(e da.Edge) {
			if e.From >= e.To {
				return
			}
			x0, y0 := proj.apply(g.GetNode(e.From).GetXY())
			x1, y1 := proj.apply(g.GetNode(e.To).GetXY())
			segment(edges, x0, y0, x1, y1, lineWidth)
		})
		edges.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.EdgeColor), image.Point{})

		nodes := vector.NewRasterizer(w, h)
		for _, n := range g.GetNodes() {
			x, y := proj.apply(n.GetXY())
			square(nodes, x, y, nodeSize)
		}
		nodes.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.NodeColor), image.Point{})
	}

	if ss == 1 {
		return canvas
	}
	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return out
}

// segment adds the quad around (x0,y0)-(x1,y1). every quad has the same
// winding so overlaps never cancel.
func segment(z *vector.Rasterizer, x0, y0, x1, y1, width float32) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
}

func square(z *vector.Rasterizer, x, y, size float32) {
	half := size / 2
	z.MoveTo(x-half, y-half)
	z.LineTo(x+half, y-half)
	z.LineTo(x+half, y+half)
	z.LineTo(x-half, y+half)
	z.ClosePath()
}

func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func EncodeWebP(w io.Writer, img image.Image, quality float32) error {
	return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: quality})
}
