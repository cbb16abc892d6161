package game

import (
	"fmt"
	"math"

	"github.com/vovakirdan/dash-runner/internal/core"
)

// Visual characters for rendering
const (
	RunnerChar      = '▶'
	DashChar        = '»'
	DeathChar       = '✶'
	SolidChar       = '█'
	BreakableChar   = '▒'
	TrackChar       = '·'
	BoundaryChar    = '═'
	rowsPerUnit     = 2.0
	runnerColumnPct = 5 // Runner sits at 1/5 of the width
)

// Render draws the track around the runner, the HUD and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.runner == nil {
		return
	}

	w, h := dst.Width(), dst.Height()
	mid := h / 2
	camX := g.runner.X() - float64(w/runnerColumnPct)

	dst.DrawHLine(0, 1, w, BoundaryChar, core.ColorTrack)
	dst.DrawHLine(0, h-1, w, BoundaryChar, core.ColorTrack)
	for x := 0; x < w; x += 2 {
		dst.SetColored(x, mid, TrackChar, core.ColorTrack)
	}

	for _, in := range g.field.Instances() {
		for i := 0; i < in.PartCount(); i++ {
			box, destructible, standing := in.Part(i)
			if !standing {
				continue
			}
			ch, color := SolidChar, core.ColorSolid
			if destructible {
				ch, color = BreakableChar, core.ColorBreakable
			}
			g.fillBox(dst, box, camX, mid, ch, color)
		}
	}

	g.drawRunner(dst, camX, mid)
	g.drawHUD(dst)

	switch g.phase {
	case core.PhaseIdle:
		drawCenteredMessage(dst, g.title, "Press Enter to start")
	case core.PhasePaused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case core.PhaseGameOver:
		if g.err != nil {
			drawCenteredMessage(dst, "RUN ABORTED", g.err.Error())
			return
		}
		title := "GAME OVER"
		if g.newBest {
			title = "NEW BEST!"
		}
		sub := fmt.Sprintf("Distance: %d  |  R restart", g.State().Score)
		if g.CanContinue() {
			sub = fmt.Sprintf("Distance: %d  |  C continue (%ds)  R restart",
				g.State().Score, int(math.Ceil(g.ContinueRemaining())))
		}
		drawCenteredMessage(dst, title, sub)
	}
}

// toScreen maps a world point to a cell; world y grows up, rows grow down.
func toScreen(p core.Vec2, camX float64, mid int) (int, int) {
	x := int(math.Floor(p.X - camX))
	y := mid - int(math.Round(p.Y*rowsPerUnit))
	return x, y
}

func (g *Game) fillBox(dst *core.Screen, b core.Box, camX float64, mid int, ch rune, c core.Color) {
	x0, y0 := toScreen(core.V(b.X, b.Top()), camX, mid)
	x1, y1 := toScreen(core.V(b.Right(), b.Y), camX, mid)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if y > 1 && y < dst.Height()-1 {
				dst.SetColored(x, y, ch, c)
			}
		}
	}
}

func (g *Game) drawRunner(dst *core.Screen, camX float64, mid int) {
	if g.phase == core.PhaseDying || g.phase == core.PhaseGameOver {
		x, y := toScreen(g.deathAt, camX, mid)
		dst.SetColored(x, y, DeathChar, core.ColorDeath)
		return
	}

	x, y := toScreen(core.V(g.runner.X(), g.runner.Y()), camX, mid)
	if g.runner.IsDashing() {
		dst.SetColored(x-2, y, DashChar, core.ColorDash)
		dst.SetColored(x-1, y, DashChar, core.ColorDash)
		dst.SetColored(x, y, RunnerChar, core.ColorDash)
		return
	}
	dst.SetColored(x, y, RunnerChar, core.ColorRunner)
}

func (g *Game) drawHUD(dst *core.Screen) {
	st := g.State()
	dst.DrawText(2, 0, fmt.Sprintf(" Distance: %d ", st.Score))

	right := fmt.Sprintf(" Lv %d  x%.2f  Best: %d ", g.levelIndex+1, g.CurrentSpeedCoefficient(), int(g.best))
	dst.DrawText(dst.Width()-len([]rune(right))-2, 0, right)

	if g.phase == core.PhaseDying && g.CanContinue() {
		msg := " C to continue "
		dst.DrawTextColored((dst.Width()-len(msg))/2, 0, msg, core.ColorHUD)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
