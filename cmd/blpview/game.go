package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"

	"github.com/foereaper/wowblp/blp"
)

// game holds one open BLP file's decoded mipmap pyramid plus the pan/
// zoom/level-select viewer state, grounded on Foereaper-GoMapViewer's
// Game (map_viewer.go).
type game struct {
	path   string
	header blp.StreamHeader
	levels []*ebiten.Image
	level  int

	camX, camY float64
	zoom       float64

	lastMX, lastMY int
	dragging       bool

	warnings []blp.Warning
	bootErr  error
}

func newGame(path string) (*game, error) {
	g := &game{path: path, zoom: 1}

	dec, err := blp.Open(path)
	if err != nil {
		g.bootErr = fmt.Errorf("open %s: %w", path, err)
		return g, g.bootErr
	}
	dec.SetWarningSink(func(w blp.Warning) { g.warnings = append(g.warnings, w) })

	g.header = dec.Header()
	count, err := dec.AvailableMipmapCount()
	if err != nil {
		g.bootErr = fmt.Errorf("%s: %w", path, err)
		return g, g.bootErr
	}

	g.levels = make([]*ebiten.Image, count)
	for i := 0; i < count; i++ {
		img, err := dec.Read(i, blp.DefaultReadOptions())
		if err != nil {
			g.bootErr = fmt.Errorf("%s: mipmap %d: %w", path, i, err)
			return g, g.bootErr
		}
		g.levels[i] = ebiten.NewImageFromImage(img)
	}

	return g, nil
}

func (g *game) Update() error {
	if g.bootErr != nil {
		if wantsDismiss() {
			return ebiten.Termination
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.level = (g.level - 1 + len(g.levels)) % len(g.levels)
		} else {
			g.level = (g.level + 1) % len(g.levels)
		}
	}

	mx, my := cursorPosition()

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.dragging {
			g.dragging = true
			g.lastMX, g.lastMY = mx, my
		} else {
			g.camX -= float64(mx-g.lastMX) / g.zoom
			g.camY -= float64(my-g.lastMY) / g.zoom
			g.lastMX, g.lastMY = mx, my
		}
	} else {
		g.dragging = false
	}

	if wy := wheelDeltaY(); wy != 0 {
		oldZoom := g.zoom
		g.zoom *= math.Pow(1.1, wy)
		g.zoom = math.Max(0.1, math.Min(32, g.zoom))

		wx := float64(mx)/oldZoom + g.camX
		wyw := float64(my)/oldZoom + g.camY
		g.camX = wx - float64(mx)/g.zoom
		g.camY = wyw - float64(my)/g.zoom
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyPixelUnderCursor(mx, my)
	}

	return nil
}

func (g *game) copyPixelUnderCursor(mx, my int) {
	img := g.levels[g.level]
	b := img.Bounds()
	px := int(float64(mx)/g.zoom+g.camX) - b.Min.X
	py := int(float64(my)/g.zoom+g.camY) - b.Min.Y
	if px < 0 || py < 0 || px >= b.Dx() || py >= b.Dy() {
		return
	}
	r, gg, bl, a := img.At(b.Min.X+px, b.Min.Y+py).RGBA()
	hex := fmt.Sprintf("#%02X%02X%02X%02X", r>>8, gg>>8, bl>>8, a>>8)
	clipboard.Write(clipboard.FmtText, []byte(hex))
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.bootErr != nil {
		drawStartupError(screen, g.path, g.bootErr)
		return
	}

	img := g.levels[g.level]
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(g.zoom, g.zoom)
	op.GeoM.Translate(-g.camX*g.zoom, -g.camY*g.zoom)
	screen.DrawImage(img, &op)

	g.drawHUD(screen)
}

func (g *game) drawHUD(screen *ebiten.Image) {
	w, h := g.levels[g.level].Bounds().Dx(), g.levels[g.level].Bounds().Dy()
	label := fmt.Sprintf("mip %d/%d  %dx%d  %s  (Tab cycles, C copies pixel)",
		g.level, len(g.levels)-1, w, h, encodingLabel(g.header))

	fillRect(screen, 10, 10, 12*len(label), 26, color.RGBA{40, 40, 40, 255})
	text.Draw(screen, label, basicfont.Face7x13, 18, 28, color.White)
}

func encodingLabel(h blp.StreamHeader) string {
	ver := "BLP1"
	if h.Version == blp.BLP0 {
		ver = "BLP0"
	}
	enc := "JPEG"
	if h.Encoding == blp.EncodingIndexed {
		enc = fmt.Sprintf("indexed a%d", h.AlphaBits)
	} else if h.AlphaBits > 0 {
		enc = fmt.Sprintf("jpeg a%d", h.AlphaBits)
	}
	return ver + " " + enc
}

func (g *game) Layout(w, h int) (int, int) { return w, h }

// drawStartupError renders the failed-to-open message a bad or missing
// BLP file produces, as a banner docked to the top edge rather than a
// centered dialog: its height grows with the message instead of
// clipping or scrolling a fixed-size box.
func drawStartupError(screen *ebiten.Image, path string, cause error) {
	const (
		glyphAdvance = 7
		leftMargin   = 22
		linePitch    = 16
		pad          = 12
		accentW      = 6
	)

	w := screen.Bounds().Dx()
	lines := wrapMessage(cause.Error(), (w-leftMargin-pad)/glyphAdvance)
	bannerH := pad*2 + linePitch*(len(lines)+2)

	fillRect(screen, 0, 0, w, bannerH, color.RGBA{18, 18, 22, 235})
	fillRect(screen, 0, 0, accentW, bannerH, color.RGBA{210, 70, 70, 255})

	title := "could not open " + path
	text.Draw(screen, title, basicfont.Face7x13, leftMargin, pad+10, color.RGBA{255, 150, 150, 255})

	y := pad + 10 + linePitch
	for _, line := range lines {
		text.Draw(screen, line, basicfont.Face7x13, leftMargin, y, color.White)
		y += linePitch
	}

	text.Draw(screen, "enter or esc to quit", basicfont.Face7x13, leftMargin, y, color.RGBA{160, 160, 160, 255})
}

// wrapMessage breaks msg into lines of at most maxChars runes, breaking
// on word boundaries where possible instead of mid-word, so an error
// string reads naturally rather than getting sliced at a fixed column.
func wrapMessage(msg string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	for _, paragraph := range strings.Split(msg, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > maxChars {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
