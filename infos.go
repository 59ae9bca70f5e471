package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"p8sfx/cart"
	"p8sfx/hw/hwdefs"
	"p8sfx/hw/sfx"
)

type styles struct {
	title lipgloss.Style
	index lipgloss.Style
	loop  lipgloss.Style
	empty lipgloss.Style
	note  lipgloss.Style
	rest  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
		index: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		loop:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		empty: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		note:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2)),
		rest:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
	}
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteName returns the name of a pitch, pitch 0 being C2.
func noteName(pitch uint8) string {
	return fmt.Sprintf("%s%d", noteNames[pitch%12], 2+pitch/12)
}

func printInfos(w io.Writer, c *cart.Cart, notes bool) {
	st := newStyles()

	fmt.Fprintln(w, st.title.Render(fmt.Sprintf(" %d SFX ", c.NumSFX())))
	if len(c.Skipped) > 0 {
		fmt.Fprintf(w, "skipped lines: %v\n", c.Skipped)
	}

	for i, slot := range c.SFX {
		if slot == nil {
			continue
		}
		idx := st.index.Render(fmt.Sprintf("sfx %2d", i))
		if slot.Empty() {
			fmt.Fprintf(w, "%s %s\n", idx, st.empty.Render("(empty)"))
			continue
		}

		h := slot.Header
		secs := float64(slot.Duration()) / hwdefs.SampleRate
		fmt.Fprintf(w, "%s speed=%-3d mode=0x%02x duration=%.2fs", idx, h.Speed, h.Mode, secs)
		if slot.Looping() {
			fmt.Fprint(w, " ", st.loop.Render(fmt.Sprintf("loop %d-%d", h.LoopStart, h.LoopEnd)))
		}
		fmt.Fprintln(w)

		if notes {
			for j, n := range slot.Notes {
				fmt.Fprintf(w, "    %2d %s\n", j, formatNote(st, n))
			}
		}
	}
}

func formatNote(st styles, n sfx.Note) string {
	if n.Volume == 0 {
		return st.rest.Render("...")
	}
	wave := sfx.WaveName(n.Waveform)
	if n.Custom {
		wave = fmt.Sprintf("custom %d", n.Waveform)
	}
	return st.note.Render(fmt.Sprintf("%-4s %-10s vol=%d fx=%s", noteName(n.Pitch), wave, n.Volume, sfx.EffectName(n.Effect)))
}
