package tui

import (
	"math"
	"strings"

	"github.com/vovakirdan/ruff-day/internal/core"
	"github.com/vovakirdan/ruff-day/internal/game"
)

// Clock face layout
const (
	clockW = 11
	clockH = 7
)

// ClipPlayer plays PlayClip commands. *audio.Player satisfies it.
type ClipPlayer interface {
	Apply(cmd game.PlayClip)
}

// Presenter holds the scene state driven by round commands.
type Presenter struct {
	images map[string]string
	player ClipPlayer

	image       string
	handEnabled bool
	faceEnabled bool
	angle       float64
	notice      string
}

// NewPresenter creates a presenter drawing art from images.
// A nil player drops clip commands.
func NewPresenter(images map[string]string, player ClipPlayer) *Presenter {
	return &Presenter{images: images, player: player}
}

// Apply applies commands in order and reports whether Quit was among them.
func (p *Presenter) Apply(cmds []game.Command) (quit bool) {
	for _, c := range cmds {
		switch c := c.(type) {
		case game.PlayClip:
			if p.player != nil {
				p.player.Apply(c)
			}
		case game.SetImage:
			p.image = c.Image
		case game.SetPropEnabled:
			switch c.Prop {
			case game.PropClockHand:
				p.handEnabled = c.Enabled
			case game.PropClockFace:
				p.faceEnabled = c.Enabled
			}
		case game.SetPropRotation:
			if c.Prop == game.PropClockHand {
				p.angle = c.Angle
			}
		case game.SetOverlayText:
			p.notice = c.Text
		case game.Quit:
			quit = true
		}
	}
	return quit
}

// Draw renders the scene and the overlay onto the screen.
func (p *Presenter) Draw(s *core.Screen, o game.Overlay) {
	s.Clear()
	w, h := s.Width(), s.Height()

	if art, ok := p.images[p.image]; ok && p.image != "" {
		c := core.ColorCyan
		if o.Dim {
			c = core.ColorGray
		}
		drawArt(s, art, c)
	}

	if p.faceEnabled {
		p.drawClock(s, core.NewRect(w-clockW-1, 0, clockW, clockH))
	}

	if o.HUD != "" {
		s.DrawText(1, 0, o.HUD, core.ColorYellow)
	}
	if p.notice != "" {
		s.DrawTextCentered(1, p.notice, core.ColorYellow)
	}

	if o.Caption != "" {
		s.DrawTextCentered(h/2, o.Caption, core.ColorBrightWhite)
	}

	if o.Heading != "" {
		heading := strings.Split(o.Heading, "\n")
		top := (h - len(heading) - len(o.Lines) - 1) / 2
		for i, line := range heading {
			s.DrawTextCentered(top+i, line, core.ColorBrightWhite)
		}
		for i, line := range o.Lines {
			s.DrawTextCentered(top+len(heading)+1+i, line, core.ColorWhite)
		}
	}
}

func (p *Presenter) drawClock(s *core.Screen, r core.Rect) {
	s.DrawBox(r, core.ColorWhite)
	cx, cy := r.Center()
	// Twelve o'clock notch
	s.SetColored(cx, r.Y, '┬', core.ColorWhite)

	if !p.handEnabled {
		return
	}

	dx, dy, glyph := handGlyph(p.angle)
	for k := 1; k <= 2; k++ {
		s.SetColored(cx+dx*2*k, cy+dy*k, glyph, core.ColorBrightRed)
		if dy == 0 {
			s.SetColored(cx+dx*(2*k-1), cy, glyph, core.ColorBrightRed)
		}
	}
	s.SetColored(cx, cy, 'o', core.ColorBrightRed)
}

// handGlyph maps an angle (90 is twelve o'clock, decreasing clockwise) onto
// one of eight screen directions.
func handGlyph(angle float64) (dx, dy int, glyph rune) {
	octant := int(math.Round(core.WrapAngle(angle)/45)) % 8
	dirs := [8]struct {
		dx, dy int
		glyph  rune
	}{
		{1, 0, '-'},
		{1, -1, '/'},
		{0, -1, '|'},
		{-1, -1, '\\'},
		{-1, 0, '-'},
		{-1, 1, '/'},
		{0, 1, '|'},
		{1, 1, '\\'},
	}
	d := dirs[octant]
	return d.dx, d.dy, d.glyph
}

// drawArt centers a multi-line block as a whole so its columns stay aligned.
func drawArt(s *core.Screen, art string, c core.Color) {
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	width := 0
	for _, l := range lines {
		width = core.Max(width, len([]rune(l)))
	}

	left := (s.Width() - width) / 2
	top := (s.Height() - len(lines)) / 2
	for i, l := range lines {
		s.DrawText(left, top+i, l, c)
	}
}

// Image returns the current image ref.
func (p *Presenter) Image() string { return p.image }

// Notice returns the current notice line.
func (p *Presenter) Notice() string { return p.notice }

// Clock returns the clock prop state.
func (p *Presenter) Clock() (face, hand bool, angle float64) {
	return p.faceEnabled, p.handEnabled, p.angle
}
