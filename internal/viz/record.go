package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
)

var ErrNoFrames = errors.New("viz: nothing recorded")

const (
	gifCharW = 8
	gifCharH = 16
)

// Recorder rasterises canvas frames into a paletted GIF. Frames beyond
// Limit are dropped.
type Recorder struct {
	Limit  int
	Delay  int // per frame, in 1/100 s
	frames []*image.Paletted
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{Limit: limit, Delay: 2}
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() { r.frames = r.frames[:0] }

// Capture appends the current canvas contents. It reports false once the
// limit is reached.
func (r *Recorder) Capture(c *Canvas) bool {
	if r.Limit > 0 && len(r.frames) >= r.Limit {
		return false
	}

	imgW, imgH := c.Width*gifCharW, c.Height*gifCharH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := gifCharW/2, gifCharH/4

	for y := 0; y < c.DotHeight(); y++ {
		for x := 0; x < c.DotWidth(); x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}

	r.frames = append(r.frames, img)
	return true
}

// Encode writes every captured frame as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, &anim)
}
