package loop

import (
	"bytes"
	"io"
	"testing"

	"github.com/tomz197/beedefense/internal/draw"
	"github.com/tomz197/beedefense/internal/game"
	"github.com/tomz197/beedefense/internal/physics"
)

func TestParticlesRenderAsDots(t *testing.T) {
	c := draw.NewScaledCanvas(4, 2, 8, 8)
	c.Render(io.Discard)

	renderSnapshot(c, game.Snapshot{
		Terminal: true,
		Particles: []game.ParticleView{
			{Rect: physics.Rect{X: 2.5, Y: 2.5, W: 1, H: 1}, Color: "#ff0000", Alpha: 1},
		},
	})

	var out bytes.Buffer
	c.Render(&out)
	want := "\033[2;3H\033[38;2;255;0;0m▀\033[0m"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestFadedParticleUsesDimmerInk(t *testing.T) {
	c := draw.NewScaledCanvas(4, 2, 8, 8)
	particle := func(alpha float64) game.Snapshot {
		return game.Snapshot{
			Terminal: true,
			Particles: []game.ParticleView{
				{Rect: physics.Rect{X: 2.5, Y: 2.5, W: 1, H: 1}, Color: "#ff0000", Alpha: alpha},
			},
		}
	}

	renderSnapshot(c, particle(1))
	c.Render(io.Discard)
	c.Clear()
	renderSnapshot(c, particle(0.2))

	var out bytes.Buffer
	c.Render(&out)
	if out.Len() == 0 || bytes.Contains(out.Bytes(), []byte("255;0;0")) {
		t.Fatalf("faded particle not redrawn dimmer: %q", out.String())
	}
}
