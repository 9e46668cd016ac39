package tui

import (
	"github.com/toolbench/toolbench/pkg/toc"
)

// termObserver reports which heading lines sit in the observed band of the
// reader's viewport. The model calls scan after every scroll.
type termObserver struct {
	reader   *Model
	margin   toc.RootMargin
	callback func([]toc.Entry)
	ids      []string
}

func (m *Model) newObserver(margin toc.RootMargin, callback func([]toc.Entry)) toc.Observer {
	o := &termObserver{reader: m, margin: margin, callback: callback}
	m.obs = o
	return o
}

func (o *termObserver) Observe(ids []string) {
	o.ids = ids
}

func (o *termObserver) Disconnect() {
	o.ids = nil
	if o.reader.obs == o {
		o.reader.obs = nil
	}
}

func (o *termObserver) scan() {
	if len(o.ids) == 0 {
		return
	}
	vp := o.reader.viewport
	entries := make([]toc.Entry, 0, len(o.ids))
	for _, id := range o.ids {
		line, ok := o.reader.doc.Anchors[id]
		if !ok {
			continue
		}
		top := float64(line - vp.YOffset)
		entries = append(entries, toc.Entry{
			ID:           id,
			Intersecting: o.margin.Intersects(top, top+1, float64(vp.Height)),
			Top:          top,
		})
	}
	o.callback(entries)
}

// termViewport lets the navigator scroll the reader; positions are lines
type termViewport struct {
	reader *Model
}

func (v termViewport) ElementTop(id string) (float64, bool) {
	line, ok := v.reader.doc.Anchors[id]
	if !ok {
		return 0, false
	}
	return float64(line - v.reader.viewport.YOffset), true
}

func (v termViewport) ScrollY() float64 {
	return float64(v.reader.viewport.YOffset)
}

func (v termViewport) ScrollTo(y float64) {
	v.reader.viewport.SetYOffset(int(y))
}

func (v termViewport) Narrow() bool {
	return v.reader.narrow()
}
