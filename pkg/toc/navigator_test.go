package toc

import "testing"

type fakeViewport struct {
	tops     map[string]float64
	scrollY  float64
	narrow   bool
	scrolled []float64
}

func (v *fakeViewport) ElementTop(id string) (float64, bool) {
	top, ok := v.tops[id]
	return top, ok
}

func (v *fakeViewport) ScrollY() float64 { return v.scrollY }

func (v *fakeViewport) ScrollTo(y float64) { v.scrolled = append(v.scrolled, y) }

func (v *fakeViewport) Narrow() bool { return v.narrow }

func TestNavigator_Navigate(t *testing.T) {
	tests := []struct {
		name    string
		top     float64
		scrollY float64
		offset  float64
		want    float64
	}{
		{name: "below fold", top: 500, scrollY: 0, offset: 80, want: 420},
		{name: "already scrolled", top: 300, scrollY: 1200, offset: 80, want: 1420},
		{name: "above viewport", top: -400, scrollY: 1000, offset: 80, want: 520},
		{name: "no header", top: 250, scrollY: 50, offset: 0, want: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := &fakeViewport{tops: map[string]float64{"heading-0": tt.top}, scrollY: tt.scrollY}
			n := NewNavigator(vp, tt.offset)

			if !n.Navigate("heading-0") {
				t.Fatal("Navigate() = false, want true")
			}
			if len(vp.scrolled) != 1 || vp.scrolled[0] != tt.want {
				t.Errorf("ScrollTo() calls = %v, want [%v]", vp.scrolled, tt.want)
			}
		})
	}
}

func TestNavigator_MissingElementIsNoop(t *testing.T) {
	vp := &fakeViewport{tops: map[string]float64{}, narrow: true}
	n := NewNavigator(vp, DefaultHeaderOffset)
	closed := false
	n.OnNarrow(func() { closed = true })

	if n.Navigate("heading-9") {
		t.Error("Navigate() = true for a missing element")
	}
	if len(vp.scrolled) != 0 {
		t.Errorf("ScrollTo() called %d times, want 0", len(vp.scrolled))
	}
	if closed {
		t.Error("panel closed for a missing element")
	}
}

func TestNavigator_NarrowClosesPanel(t *testing.T) {
	for _, narrow := range []bool{true, false} {
		vp := &fakeViewport{tops: map[string]float64{"heading-0": 100}, narrow: narrow}
		n := NewNavigator(vp, DefaultHeaderOffset)
		closed := false
		n.OnNarrow(func() { closed = true })

		n.Navigate("heading-0")
		if closed != narrow {
			t.Errorf("narrow=%v: panel closed = %v, want %v", narrow, closed, narrow)
		}
	}
}

func TestNavigator_NilViewport(t *testing.T) {
	if NewNavigator(nil, DefaultHeaderOffset).Navigate("heading-0") {
		t.Error("Navigate() = true without a viewport")
	}
}
