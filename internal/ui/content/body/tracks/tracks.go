// Package tracks contains the playlist view.
package tracks

import (
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/diamondburned/glass/internal/durafmt"
	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/gotk3/gotk3/pango"
)

type ParentController interface {
	SelectTrack(id string)
	RemoveTrack(id string)
	AddFiles(paths []string)
	SearchTracks(query string) []playlist.Track
}

type columnType = int

const (
	columnTitle columnType = iota
	columnTime
	columnSelected
)

var trackListCSS = css.PrepareClass("track-list", `
	treeview.view {
		background-color: #0a0a12;
	}
	treeview.view:selected {
		background-color: alpha(#22d3ee, 0.25);
	}
`)

var searchCSS = css.PrepareClass("track-search", `
	entry {
		margin: 6px;
	}
`)

var trackListDragTargets = []gtk.TargetEntry{
	targetEntry("text/uri-list", gtk.TARGET_OTHER_APP, 1),
}

func targetEntry(target string, f gtk.TargetFlags, info uint) gtk.TargetEntry {
	e, _ := gtk.TargetEntryNew(target, f, info)
	return *e
}

func newColumn(text string, col columnType) *gtk.TreeViewColumn {
	r, _ := gtk.CellRendererTextNew()
	r.SetProperty("weight-set", true)
	r.SetProperty("ellipsize", pango.ELLIPSIZE_END)
	r.SetProperty("ellipsize-set", true)

	c, _ := gtk.TreeViewColumnNewWithAttribute(text, r, "text", col)
	c.AddAttribute(r, "weight", columnSelected)
	c.SetSizing(gtk.TREE_VIEW_COLUMN_FIXED)
	c.SetResizable(true)

	switch col {
	case columnTime:
		c.SetMinWidth(50)

	case columnSelected:
		c.SetVisible(false)

	default:
		c.SetExpand(true)
		c.SetMinWidth(150)
	}

	return c
}

func weight(bold bool) int {
	if bold {
		return int(pango.WEIGHT_BOLD)
	}
	return int(pango.WEIGHT_BOOK)
}

// TrackList shows the playlist with a search entry on top. The rows shown are
// either all tracks or the search results.
type TrackList struct {
	gtk.Box
	Search *gtk.SearchEntry
	Tree   *gtk.TreeView
	Store  *gtk.ListStore
	Select *gtk.TreeSelection

	parent ParentController
	// ids holds the track ID of each row.
	ids     []string
	playing string
	query   string
}

func NewTrackList(parent ParentController) *TrackList {
	store, _ := gtk.ListStoreNew(
		glib.TYPE_STRING, // columnTitle
		glib.TYPE_STRING, // columnTime
		glib.TYPE_INT,    // columnSelected - pango.Weight
	)

	tree, _ := gtk.TreeViewNewWithModel(store)
	tree.SetActivateOnSingleClick(false)
	tree.SetHeadersVisible(false)
	tree.AppendColumn(newColumn("Title", columnTitle))
	tree.AppendColumn(newColumn("", columnTime))
	tree.AppendColumn(newColumn("", columnSelected))
	tree.Show()
	trackListCSS(tree)

	s, _ := tree.GetSelection()
	s.SetMode(gtk.SELECTION_SINGLE)

	scroll, _ := gtk.ScrolledWindowNew(nil, nil)
	scroll.SetPolicy(gtk.POLICY_NEVER, gtk.POLICY_AUTOMATIC)
	scroll.SetVExpand(true)
	scroll.Add(tree)
	scroll.Show()

	search, _ := gtk.SearchEntryNew()
	search.SetPlaceholderText("Search tracks")
	search.Show()
	searchCSS(search)

	box, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 0)
	box.PackStart(search, false, false, 0)
	box.PackStart(scroll, true, true, 0)
	box.SetSizeRequest(260, -1)

	list := &TrackList{
		Box:    *box,
		Search: search,
		Tree:   tree,
		Store:  store,
		Select: s,
		parent: parent,
	}

	tree.Connect("row-activated", func(_ *gtk.TreeView, path *gtk.TreePath) {
		if id := list.idAt(path); id != "" {
			parent.SelectTrack(id)
		}
	})

	tree.Connect("key-press-event", func(_ *gtk.TreeView, ev *gdk.Event) bool {
		key := gdk.EventKeyNewFromEvent(ev)
		if key.KeyVal() != gdk.KEY_Delete {
			return false
		}

		if id := list.selectedID(); id != "" {
			parent.RemoveTrack(id)
		}
		return true
	})

	search.Connect("search-changed", func() {
		text, _ := search.GetText()
		list.query = strings.TrimSpace(text)
		list.refresh()
	})

	tree.EnableModelDragDest(trackListDragTargets, gdk.ACTION_COPY)
	tree.Connect("drag-data-received",
		func(_ gtk.IWidget, ctx *gdk.DragContext, x, y int, data *gtk.SelectionData) {
			if paths := ParseURIList(string(data.GetData())); len(paths) > 0 {
				parent.AddFiles(paths)
			}
		},
	)

	return list
}

// SetTracks is called when the playlist changes.
func (list *TrackList) SetTracks([]playlist.Track) {
	list.refresh()
}

func (list *TrackList) refresh() {
	tracks := list.parent.SearchTracks(list.query)

	list.Store.Clear()
	list.ids = list.ids[:0]

	for _, track := range tracks {
		iter := list.Store.Append()

		var duration string
		if track.Duration > 0 {
			duration = durafmt.Format(track.Duration)
		}

		list.Store.Set(
			iter,
			[]int{columnTitle, columnTime, columnSelected},
			[]interface{}{track.Title, duration, weight(track.ID == list.playing)},
		)

		list.ids = append(list.ids, track.ID)
	}
}

// SetPlaying bolds the playing track's row. An empty ID unbolds all rows.
func (list *TrackList) SetPlaying(id string) {
	old := list.playing
	list.playing = id

	for i, rowID := range list.ids {
		if rowID != old && rowID != id {
			continue
		}

		path, err := gtk.TreePathNewFromString(strconv.Itoa(i))
		if err != nil {
			continue
		}

		iter, err := list.Store.GetIter(path)
		if err != nil {
			continue
		}

		list.Store.SetValue(iter, columnSelected, weight(rowID == id))

		if rowID == id {
			list.Tree.ScrollToCell(path, nil, false, 0, 0)
		}
	}
}

func (list *TrackList) idAt(path *gtk.TreePath) string {
	indices := path.GetIndices()
	if len(indices) == 0 || indices[0] >= len(list.ids) {
		return ""
	}
	return list.ids[indices[0]]
}

func (list *TrackList) selectedID() string {
	_, iter, ok := list.Select.GetSelected()
	if !ok {
		return ""
	}

	path, err := list.Store.GetPath(iter)
	if err != nil {
		return ""
	}

	return list.idAt(path)
}

// ParseURIList decodes a text/uri-list into local file paths. Lines that
// aren't file URIs are skipped.
func ParseURIList(data string) []string {
	var paths []string

	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		// Comments are allowed in uri-lists.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		u, err := url.Parse(line)
		if err != nil {
			log.Printf("Failed parsing URI %q: %v\n", line, err)
			continue
		}
		if u.Scheme != "file" {
			log.Println("Unknown file scheme (only locals):", u.Scheme)
			continue
		}

		paths = append(paths, u.Path)
	}

	return paths
}
