package ledpanel

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Idle animation timing: each pattern renders frames at 50 ms for ~8 s
// before the animator moves to the next one.
const (
	frameInterval   = 50 * time.Millisecond
	framesPerCycle  = 160
)

// patternFunc renders frame n of an animation.
type patternFunc func(n int, f *Frame)

// Animator cycles decorative patterns on the panel while no alert is
// active. Whenever active() turns true mid-pattern the animator blanks the
// panel and waits; the alert flash sequences own the panel until every
// flag is acknowledged.
type Animator struct {
	panel  Panel
	active func() bool

	rng *rand.Rand
}

// NewAnimator creates an animator; active reports whether any alert flag
// is currently set.
func NewAnimator(panel Panel, active func() bool) *Animator {
	return &Animator{
		panel:  panel,
		active: active,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run animates until ctx is done.
func (a *Animator) Run(ctx context.Context) {
	patterns := []patternFunc{a.rainbowWave, a.firePattern, a.matrixRain, a.spiralPattern}
	idx := 0

	for {
		if ctx.Err() != nil {
			_ = a.panel.Clear()
			return
		}

		if a.active() {
			_ = a.panel.Clear()
			if !sleepCtx(ctx, time.Second) {
				return
			}
			continue
		}

		if !a.playPattern(ctx, patterns[idx]) {
			_ = a.panel.Clear()
			return
		}
		idx = (idx + 1) % len(patterns)
	}
}

// playPattern renders one full cycle, aborting early if an alert becomes
// active or ctx is cancelled. Returns false only on cancellation.
func (a *Animator) playPattern(ctx context.Context, p patternFunc) bool {
	var f Frame
	for n := 0; n < framesPerCycle; n++ {
		if a.active() {
			return true
		}
		p(n, &f)
		_ = a.panel.SetFrame(f)
		if !sleepCtx(ctx, frameInterval) {
			return false
		}
	}
	return true
}

func (a *Animator) rainbowWave(n int, f *Frame) {
	offset := float64(n) * 0.1
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			wave := math.Sin(float64(x+y)/3.0+offset)*0.5 + 0.5
			hue := math.Mod(offset*50+float64(x)*20+float64(y)*20, 360)
			f[y*Width+x] = hsvToRGB(hue, 0.8, wave*0.6+0.2)
		}
	}
}

func (a *Animator) firePattern(_ int, f *Frame) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			// Hotter at the bottom, cooler at the top.
			base := float64(100+a.rng.Intn(156)) * float64(Height-y) / Height
			f[y*Width+x] = Color{
				R: clampByte(base),
				G: clampByte(base - 100),
				B: clampByte(base - 200),
			}
		}
	}
}

func (a *Animator) matrixRain(n int, f *Frame) {
	*f = Frame{}
	for col := 0; col < Width; col++ {
		pos := (n + col*3) % 12
		for trail := 0; trail < 4; trail++ {
			y := pos - trail
			if y < 0 || y >= Height {
				continue
			}
			intensity := 255 * (1 - float64(trail)*0.3)
			f[y*Width+col] = Color{G: clampByte(intensity)}
		}
	}
}

func (a *Animator) spiralPattern(n int, f *Frame) {
	offset := float64(n) * 0.06
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			dx := float64(x) - 3.5
			dy := float64(y) - 3.5
			angle := math.Atan2(dy, dx)
			dist := math.Sqrt(dx*dx + dy*dy)
			hue := math.Mod(angle*57.3+dist*40+offset*50, 360)
			brightness := 0.4 + 0.2*math.Sin(dist-offset)
			f[y*Width+x] = hsvToRGB(hue, 0.9, brightness)
		}
	}
}

// hsvToRGB converts h in [0,360), s and v in [0,1].
func hsvToRGB(h, s, v float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 60
	i := int(h) % 6
	f := h - math.Floor(h)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return Color{R: clampByte(r * 255), G: clampByte(g * 255), B: clampByte(b * 255)}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// sleepCtx waits d or until ctx is done; returns false on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
