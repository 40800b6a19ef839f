// Package window presents a viewer session in a desktop window using ebiten.
package window

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/viewer"
)

// Options controls the window
type Options struct {
	Title string
	Scale int // Window pixels per frame pixel
	TPS   int // Updates per second
}

// keyBindings maps keys to eye movements. W/S/A/D plus the arrow keys.
var keyBindings = []struct {
	key       ebiten.Key
	direction renderer.Direction
}{
	{ebiten.KeyW, renderer.MoveUp},
	{ebiten.KeyS, renderer.MoveDown},
	{ebiten.KeyA, renderer.MoveLeft},
	{ebiten.KeyD, renderer.MoveRight},
	{ebiten.KeyArrowUp, renderer.MoveUp},
	{ebiten.KeyArrowDown, renderer.MoveDown},
	{ebiten.KeyArrowLeft, renderer.MoveLeft},
	{ebiten.KeyArrowRight, renderer.MoveRight},
}

// Run opens a window showing the session and blocks until the window is
// closed, Escape is pressed or ctx is cancelled.
func Run(ctx context.Context, session *viewer.Session, opts Options) error {
	width, height := session.Size()
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.TPS <= 0 {
		opts.TPS = 60
	}

	g := &game{ctx: ctx, session: session}
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(width*opts.Scale, height*opts.Scale)
	ebiten.SetTPS(opts.TPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

type game struct {
	ctx     context.Context
	session *viewer.Session
	frame   *ebiten.Image
}

func (g *game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.session.Move(b.direction)
		}
	}

	img, rendered, err := g.session.Frame(g.ctx)
	if err != nil {
		if g.ctx.Err() != nil {
			return ebiten.Termination
		}
		return err
	}
	if rendered {
		if g.frame == nil {
			g.frame = ebiten.NewImage(img.Bounds().Dx(), img.Bounds().Dy())
		}
		g.frame.WritePixels(img.Pix)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.frame != nil {
		screen.DrawImage(g.frame, nil)
	}

	eye := g.session.Eye()
	stats := g.session.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("eye (%.2f, %.2f, %.2f)\nframe %v\nTPS %.0f",
		eye.X, eye.Y, eye.Z, stats.Duration.Round(100*time.Microsecond), ebiten.ActualTPS()))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.session.Size()
}
