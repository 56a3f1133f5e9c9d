package quartz

import "testing"

func TestRecorderBalance(t *testing.T) {
	b := Mem()
	c := b.NewContext()

	b.SaveGState(c)
	b.TranslateCTM(c, 10, 20)
	b.BeginTransparencyLayer(c)
	b.FillRect(c, 0, 0, 50, 50)
	b.EndTransparencyLayer(c)
	b.TranslateCTM(c, -10, -20)
	b.RestoreGState(c)

	r := b.RecorderFor(c)
	if r == nil {
		t.Fatal("no recorder for minted context")
	}
	if !r.Balanced() {
		t.Errorf("balanced sequence left state: save=%d layer=%d tx=%.1f ty=%.1f",
			r.SaveDepth, r.LayerDepth, r.TranslateX, r.TranslateY)
	}
	if r.MaxSaveDepth != 1 {
		t.Errorf("MaxSaveDepth = %d, want 1", r.MaxSaveDepth)
	}
	if len(r.Ops) == 0 {
		t.Error("no ops recorded")
	}
}

func TestRecorderTracksState(t *testing.T) {
	b := Mem()
	c := b.NewContext()

	b.SetRGBFillColor(c, 1, 0.5, 0, 1)
	b.SetLineWidth(c, 2.5)
	b.SetLineJoin(c, LineJoinRound)
	b.ClipToRect(c, 5, 5, 100, 80)

	r := b.RecorderFor(c)
	if r.FillColor != [4]float64{1, 0.5, 0, 1} {
		t.Errorf("FillColor = %v", r.FillColor)
	}
	if r.LineWidth != 2.5 || r.LineJoin != LineJoinRound {
		t.Errorf("line state = %.1f/%d", r.LineWidth, r.LineJoin)
	}
	if x, y, w, h := b.ClipBoundingBox(c); x != 5 || y != 5 || w != 100 || h != 80 {
		t.Errorf("ClipBoundingBox = %v %v %v %v", x, y, w, h)
	}
}

func TestImageRefCounts(t *testing.T) {
	b := Mem()

	img := b.NewImage(64, 32)
	if w, h := b.ImageSize(img); w != 64 || h != 32 {
		t.Fatalf("ImageSize = %dx%d", w, h)
	}
	b.RetainImage(img)
	if n := b.ImageRefCount(img); n != 2 {
		t.Fatalf("refs = %d after retain, want 2", n)
	}
	b.ReleaseImage(img)
	b.ReleaseImage(img)
	if n := b.ImageRefCount(img); n != 0 {
		t.Errorf("refs = %d after final release, want 0", n)
	}
	if w, h := b.ImageSize(img); w != 0 || h != 0 {
		t.Errorf("freed image still reports size %dx%d", w, h)
	}
}

func TestFontMeasurement(t *testing.T) {
	b := Mem()

	f, err := b.NewFont("Helvetica", 12)
	if err != nil {
		t.Fatal(err)
	}
	defer b.ReleaseFont(f)

	if got := b.StringWidth(f, ""); got != 0 {
		t.Errorf("empty string width = %.2f", got)
	}
	one := b.StringWidth(f, "a")
	five := b.StringWidth(f, "aaaaa")
	if one <= 0 {
		t.Fatalf("single glyph width = %.2f", one)
	}
	if five != 5*one {
		t.Errorf("width not additive: %.2f vs 5*%.2f", five, one)
	}
	if cap := b.FontCapHeight(f); cap <= 0 || cap >= 12 {
		t.Errorf("cap height = %.2f, want within (0, size)", cap)
	}
}
