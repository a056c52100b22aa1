package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/beedefense/internal/draw"
)

var gameOverArt = []string{
	`  ___   _   __  __ ___    _____   _____ ___  `,
	` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawFrame renders the current screen. Screen changes clear the terminal
// so text from the previous screen does not linger.
func (s *Session) drawFrame(now time.Time) error {
	if s.status != s.prevStatus || s.inactive != s.wasInactive {
		draw.ClearScreen(s.cw)
		s.canvas.ForceRedraw()
		s.prevStatus = s.status
		s.wasInactive = s.inactive
	}

	s.canvas.Clear()
	if s.status == StatusPlaying || s.status == StatusGameOver {
		renderSnapshot(s.canvas, s.driver.Snapshot())
	}
	s.canvas.Render(s.cw)
	s.canvas.RenderBorder(s.cw)

	s.drawUI(now)
	return s.cw.Flush()
}

// drawUI draws the text layer for the current screen.
func (s *Session) drawUI(now time.Time) {
	cols := s.canvas.TerminalWidth()
	rows := s.canvas.TerminalHeight()
	centerX, centerY := cols/2, rows/2

	if s.status == StatusShutdown {
		s.drawShutdownScreen(centerX, centerY, now)
		return
	}
	if s.inactive {
		s.drawInactivityScreen(centerX, centerY, now)
		return
	}

	switch s.status {
	case StatusMenu:
		s.drawMenuScreen(centerX, centerY, now)
	case StatusPlaying:
		s.drawPlayingHUD(cols)
	case StatusGameOver:
		s.drawPlayingHUD(cols)
		s.drawGameOverScreen(centerX, centerY, now)
	}
}

// writeCentered writes each line centered on centerX, starting at row.
func (s *Session) writeCentered(centerX, row int, lines ...string) {
	width := 0
	for _, line := range lines {
		width = max(width, len([]rune(line)))
	}
	for i, line := range lines {
		s.cw.WriteAt(max(centerX-width/2, 1), row+i, line)
	}
}

func blinkOn(now time.Time) bool {
	return now.UnixMilli()/600%2 == 0
}

func (s *Session) drawMenuScreen(centerX, centerY int, now time.Time) {
	top := centerY - 6
	s.writeCentered(centerX, top, "G A L A C T I C   B E E   D E F E N S E")
	s.writeCentered(centerX, top+2, "~ hold the line against the swarm ~")

	controlsY := top + 4
	s.writeCentered(centerX, controlsY, "Controls")
	s.writeCentered(centerX, controlsY+1,
		"A D / < >  . . . .  Move",
		"SPACE / W  . . . . Shoot",
		"ESC  . . . . . .  Give up",
		"Q  . . . . . . . . . Quit",
	)

	prompt := ">>  Press SPACE to Start  <<"
	if !blinkOn(now) {
		prompt = "                            "
	}
	s.writeCentered(centerX, controlsY+7, prompt)
}

// drawPlayingHUD draws the score in a fixed width so it never leaves
// stale digits behind.
func (s *Session) drawPlayingHUD(cols int) {
	s.cw.WriteAt(2, 1, fmt.Sprintf("SCORE: %06d", s.score))

	title := "GALACTIC BEE DEFENSE"
	if cols > len(title)+16 {
		s.cw.WriteAt(cols-len(title), 1, title)
	}
}

func (s *Session) drawGameOverScreen(centerX, centerY int, now time.Time) {
	top := centerY - 4
	s.writeCentered(centerX, top, gameOverArt...)
	s.writeCentered(centerX, top+len(gameOverArt)+1, fmt.Sprintf("FINAL SCORE: %06d", s.finalScore))

	if now.Sub(s.gameOverAt) >= restartDelay {
		prompt := ">>  Press SPACE to Restart  <<"
		if !blinkOn(now) {
			prompt = "                              "
		}
		s.writeCentered(centerX, top+len(gameOverArt)+3, prompt)
	}
}

func (s *Session) drawInactivityScreen(centerX, centerY int, now time.Time) {
	left := time.Duration(s.opts.Client.InactivityDisconnectSeconds)*time.Second - now.Sub(s.lastInput)
	s.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")
	s.writeCentered(centerX, centerY, fmt.Sprintf("Disconnecting in %3d seconds", int(max(left.Seconds(), 0))))
	s.writeCentered(centerX, centerY+2, "Press any key to continue")
}

func (s *Session) drawShutdownScreen(centerX, centerY int, now time.Time) {
	left := shutdownNotice - now.Sub(s.shutdownAt)
	s.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	s.writeCentered(centerX, centerY-1, "The hive is closing for maintenance.")
	s.writeCentered(centerX, centerY, "Please reconnect in a moment.")
	s.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", int(left.Seconds())+1))
	s.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
