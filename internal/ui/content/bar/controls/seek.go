package controls

import (
	"fmt"
	"html"
	"math"

	"github.com/diamondburned/glass/internal/durafmt"
	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/gotk3/gotk3/gtk"
)

var timePositionCSS = css.PrepareClass("time-position", "")

var timeTotalCSS = css.PrepareClass("time-total", "")

var CleanScaleCSS = css.PrepareClass("clean-scale", `
	scale {
		margin: -2px 0px;
	}

	scale trough,
	scale highlight {
		border-radius: 9999px;
	}

	scale highlight {
		background: #22d3ee;
	}

	scale slider {
		padding:    1px;
		background: none;
		transition: linear 75ms background;
	}

	scale:hover slider {
		background: radial-gradient(
			circle,
			#22d3ee 0%,
			#22d3ee 25%,
			transparent 10%,
			transparent
		);
	}
`)

var seekCSS = css.PrepareClass("seek", "")

const updateSeekEvery = 4 // update once every 4 spins

// Seek is the seek bar. The bar's range is a percentage of the track, so it
// stays usable before the duration is known.
type Seek struct {
	gtk.Box
	Position  *gtk.Label
	SeekBar   *gtk.Scale
	TotalTime *gtk.Label

	adj     *gtk.Adjustment
	total   float64
	spinner uint8
}

func NewSeek(parent ParentController) *Seek {
	pos, _ := gtk.LabelNew("")
	pos.SetSingleLineMode(true)
	pos.SetWidthChars(5)
	pos.Show()
	timePositionCSS(pos)

	time, _ := gtk.LabelNew("")
	time.SetSingleLineMode(true)
	time.SetWidthChars(5)
	time.Show()
	timeTotalCSS(time)

	adj, _ := gtk.AdjustmentNew(0, 0, 100, 1, 10, 0)

	bar, _ := gtk.ScaleNew(gtk.ORIENTATION_HORIZONTAL, adj)
	bar.SetDrawValue(false)
	bar.SetVAlign(gtk.ALIGN_CENTER)
	bar.Show()
	CleanScaleCSS(bar)

	bar.Connect("change-value", func(_ *gtk.Scale, _ gtk.ScrollType, v float64) {
		parent.SeekPercent(math.Max(0, math.Min(100, v)))
	})

	box, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 0)
	box.PackStart(pos, false, false, 0)
	box.PackStart(bar, true, true, 0)
	box.PackStart(time, false, false, 0)
	seekCSS(box)

	s := &Seek{
		Box:       *box,
		Position:  pos,
		SeekBar:   bar,
		TotalTime: time,

		adj:   adj,
		total: -1,
	}

	s.Reset()
	return s
}

// Reset clears the seek bar for a new track.
func (s *Seek) Reset() {
	s.adj.SetValue(0)
	s.setTotal(0)
	s.Position.SetMarkup(smallText(durafmt.FormatSeconds(0)))
}

// UpdatePosition updates the bar. Updates are throttled since mpv reports the
// position far more often than the label can visibly change.
func (s *Seek) UpdatePosition(pos, total float64) {
	s.setTotal(math.Round(total))

	if s.shouldUpdate() {
		s.adj.SetValue(percent(pos, total))
		s.Position.SetMarkup(smallText(durafmt.FormatSeconds(pos)))
	}
}

func (s *Seek) shouldUpdate() bool {
	spin := s.spinner
	s.spinner = (s.spinner + 1) % updateSeekEvery
	return spin == 0
}

func (s *Seek) setTotal(total float64) {
	if s.total != total {
		s.total = total
		s.TotalTime.SetMarkup(smallText(durafmt.FormatSeconds(total)))
	}
}

func percent(pos, total float64) float64 {
	if total <= 0 || math.IsNaN(pos) {
		return 0
	}
	return math.Max(0, math.Min(100, pos/total*100))
}

func smallText(text string) string {
	return fmt.Sprintf(
		`<span size="small" alpha="80%%">%s</span>`,
		html.EscapeString(text),
	)
}
