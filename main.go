package main

import (
	"log"
	"os"

	"github.com/diamondburned/glass/internal/config"
	"github.com/diamondburned/glass/internal/mpris"
	"github.com/diamondburned/glass/internal/muse"
	"github.com/diamondburned/glass/internal/muse/metadata/ffmpeg"
	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/diamondburned/glass/internal/state"
	"github.com/diamondburned/glass/internal/ui"
	"github.com/diamondburned/glass/internal/ui/content/body/canvas"
	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/diamondburned/glass/internal/visualizer"
	"github.com/diamondburned/handy"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

func idleAdd(f func()) { glib.IdleAdd(f) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln("Failed to load config:", err)
	}

	s, err := muse.NewSession(cfg.SessionOptions(), idleAdd)
	if err != nil {
		log.Fatalln("Failed to create mpv session:", err)
	}

	a, err := gtk.ApplicationNew("com.github.diamondburned.glass", 0)
	if err != nil {
		log.Fatalln("Failed to create a GtkApplication:", err)
	}

	a.Connect("activate", func() {
		handy.Init()
		css.ApplyGlobal()

		w, err := ui.NewMainWindow(a, s)
		if err != nil {
			log.Fatalln("Failed to create main window:", err)
		}

		conn, handler, err := mpris.New(w)
		if err != nil {
			log.Println("MPRIS unavailable:", err)
		}

		pl := playlist.New()
		w.UseState(state.New(pl, s, handler, idleAdd))
		w.UseVisualizer(visualizer.New(w.Canvas(), canvas.Ticker{}, cfg.VisualizerOptions()))

		s.SetHandler(handler)
		// Start is non-blocking, as it should be when ran inside the main
		// thread.
		s.Start()

		if len(os.Args) > 1 {
			w.State().AddFiles(os.Args[1:])
		}

		w.Show()
		a.AddWindow(w)

		w.Connect("destroy", func() {
			conn.Close()
			s.Stop()
			ffmpeg.StopAll()
		})
	})

	if exitCode := a.Run(os.Args[:1]); exitCode > 0 {
		os.Exit(exitCode)
	}
}
