// Package text draws strings onto a framebuffer.
//
// Glyph outlines come from TrueType fonts parsed with freetype, are rotated
// by the RotateFont option and rasterized into an alpha mask. Every mask
// pixel with at least half coverage is then set on the framebuffer, honoring
// the RotatePixel option.
package text

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"github.com/golang/freetype/raster"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/ssd1306/diag"
	"github.com/BeatGlow/ssd1306/framebuffer"
)

// coverage is the minimum mask alpha of a lit pixel.
const coverage = 0x80

// Engine renders text. Fonts are parsed once and cached. Draw calls may be
// issued from multiple goroutines; rasterization is serialized.
type Engine struct {
	mu    sync.Mutex
	dc    *diag.Context
	fonts map[string]*truetype.Font
	glyph truetype.GlyphBuf
	r     *raster.Rasterizer
	pts   []fixed.Point26_6
}

// NewEngine returns a font engine holding its own reference to dc.
func NewEngine(dc *diag.Context) *Engine {
	return &Engine{
		dc:    diag.Acquire(dc),
		fonts: make(map[string]*truetype.Font),
		r:     raster.NewRasterizer(0, 0),
	}
}

// Close drops the font cache and releases the diagnostic context. The
// context pointer is never cleared; once released it logs to standard error.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fonts == nil {
		return nil
	}
	e.fonts = nil
	e.dc.Release()
	return nil
}

func (e *Engine) font(s settings) (*truetype.Font, error) {
	key := s.path
	if key == "" {
		key = s.family.String()
	}
	if f, ok := e.fonts[key]; ok {
		return f, nil
	}

	data := families[s.family].ttf
	if s.path != "" {
		var err error
		if data, err = os.ReadFile(s.path); err != nil {
			return nil, fmt.Errorf("%w: font %s: %v", diag.ErrIO, s.path, err)
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", diag.ErrInvalidArgument, key, err)
	}
	e.dc.Debugf("text: loaded font %s", key)
	e.fonts[key] = f
	return f, nil
}

func (e *Engine) draw(fb *framebuffer.Framebuffer, text []rune, x, y int, family Family, size int, opts []Option) (int, BoundingBox, error) {
	if fb == nil {
		return 0, BoundingBox{}, e.dc.Fail(fmt.Errorf("%w: no framebuffer", diag.ErrInvalidArgument))
	}
	if size <= 0 {
		return 0, BoundingBox{}, e.dc.Fail(fmt.Errorf("%w: font size %d", diag.ErrInvalidArgument, size))
	}
	s, err := e.resolve(family, opts)
	if err != nil {
		return 0, BoundingBox{}, e.dc.Fail(err)
	}
	if len(text) == 0 {
		return 0, BoundingBox{}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fonts == nil {
		return 0, BoundingBox{}, fmt.Errorf("%w: font engine is closed", diag.ErrInvalidArgument)
	}

	var (
		pen = fixed.P(x, y)
		box = boxer{w: fb.Width(), h: fb.Height()}
	)
	if s.family == FontBasic {
		if size != basicfont.Face7x13.Height {
			e.dc.Debugf("text: font family %s has a fixed size of %d pixels", s.family, basicfont.Face7x13.Height)
		}
		for _, r := range text {
			dr, mask, mp, advance, ok := basicfont.Face7x13.Glyph(pen, r)
			if ok {
				e.blit(fb, dr, mask, mp, s.pixel)
				box.add(dr)
			}
			pen.X += advance
		}
		return len(text), box.box, nil
	}

	f, err := e.font(s)
	if err != nil {
		return 0, BoundingBox{}, e.dc.Fail(err)
	}
	for _, r := range text {
		mask, at, advance, err := e.rasterize(f, r, size, s.degrees, pen)
		if err != nil {
			e.dc.Warnf("text: glyph %q: %v", r, err)
			continue
		}
		if mask != nil {
			dr := mask.Bounds().Add(at)
			e.blit(fb, dr, mask, image.Point{}, s.pixel)
			box.add(dr)
		}
		pen = pen.Add(advance)
	}
	return len(text), box.box, nil
}

// rasterize renders the glyph for r with its origin at pen, rotated by
// degrees. It returns the coverage mask, the position of its top left corner
// and the rotated advance. Blank glyphs have no mask.
func (e *Engine) rasterize(f *truetype.Font, r rune, size, degrees int, pen fixed.Point26_6) (*image.Alpha, image.Point, fixed.Point26_6, error) {
	if err := e.glyph.Load(f, fixed.I(size), f.Index(r), font.HintingNone); err != nil {
		return nil, image.Point{}, fixed.Point26_6{}, err
	}

	sin, cos := math.Sincos(float64(degrees) * math.Pi / 180)
	if degrees == 0 {
		sin, cos = 0, 1
	}

	// Glyph space is y-up, the framebuffer is y-down.
	rotate := func(x, y fixed.Int26_6) fixed.Point26_6 {
		fx, fy := float64(x), float64(y)
		return fixed.Point26_6{
			X: pen.X + fixed.Int26_6(math.Round(fx*cos-fy*sin)),
			Y: pen.Y - fixed.Int26_6(math.Round(fx*sin+fy*cos)),
		}
	}
	origin := rotate(0, 0)
	advance := rotate(e.glyph.AdvanceWidth, 0).Sub(origin)

	if len(e.glyph.Points) == 0 {
		return nil, image.Point{}, advance, nil
	}

	e.pts = e.pts[:0]
	bounds := fixed.Rectangle26_6{Min: fixed.Point26_6{X: math.MaxInt32, Y: math.MaxInt32}, Max: fixed.Point26_6{X: math.MinInt32, Y: math.MinInt32}}
	for _, p := range e.glyph.Points {
		q := rotate(p.X, p.Y)
		e.pts = append(e.pts, q)
		bounds.Min.X = min(bounds.Min.X, q.X)
		bounds.Min.Y = min(bounds.Min.Y, q.Y)
		bounds.Max.X = max(bounds.Max.X, q.X)
		bounds.Max.Y = max(bounds.Max.Y, q.Y)
	}
	at := image.Pt(bounds.Min.X.Floor(), bounds.Min.Y.Floor())
	w, h := bounds.Max.X.Ceil()-at.X, bounds.Max.Y.Ceil()-at.Y
	if w <= 0 || h <= 0 {
		return nil, image.Point{}, advance, nil
	}

	shift := fixed.P(at.X, at.Y)
	for i := range e.pts {
		e.pts[i] = e.pts[i].Sub(shift)
	}

	e.r.SetBounds(w, h)
	e.r.Clear()
	e.r.UseNonZeroWinding = true
	start := 0
	for _, end := range e.glyph.Ends {
		e.contour(e.pts[start:end], e.glyph.Points[start:end])
		start = end
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	e.r.Rasterize(raster.NewAlphaSrcPainter(mask))
	return mask, at, advance, nil
}

// contour adds one closed glyph contour to the rasterizer. Points flagged
// off-curve are quadratic control points; two consecutive control points
// imply an on-curve point halfway between them.
func (e *Engine) contour(ps []fixed.Point26_6, flags []truetype.Point) {
	if len(ps) == 0 {
		return
	}
	on := func(i int) bool {
		return flags[i].Flags&0x01 != 0
	}
	mid := func(a, b fixed.Point26_6) fixed.Point26_6 {
		return fixed.Point26_6{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	}

	var (
		start  = ps[0]
		others = ps[1:]
		offset = 1
	)
	if !on(0) {
		last := len(ps) - 1
		if on(last) {
			start, others, offset = ps[last], ps[:last], 0
		} else {
			start, others, offset = mid(start, ps[last]), ps, 0
		}
	}

	e.r.Start(start)
	q0, on0 := start, true
	for i, q := range others {
		onq := on(i + offset)
		switch {
		case onq && on0:
			e.r.Add1(q)
		case onq:
			e.r.Add2(q0, q)
		case !on0:
			e.r.Add2(q0, mid(q0, q))
		}
		q0, on0 = q, onq
	}
	if on0 {
		e.r.Add1(start)
	} else {
		e.r.Add2(q0, start)
	}
}

// blit sets the pixels of dr covered by mask. Destinations outside the
// framebuffer are skipped.
func (e *Engine) blit(fb *framebuffer.Framebuffer, dr image.Rectangle, mask image.Image, mp image.Point, rot framebuffer.Rotation) {
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			_, _, _, a := mask.At(mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y).RGBA()
			if a>>8 < coverage {
				continue
			}
			_ = fb.PutPixelRotated(x, y, true, rot)
		}
	}
}
