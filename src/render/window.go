package render

import (
	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/unit"
)

// RunWindow shows s in a window until the window is closed. The page is
// scaled to the window. Like every gio window loop it runs on its own
// goroutine while app.Main runs on the main one.
func RunWindow(title string, s *GioSurface) error {
	size := s.Size()
	w := new(app.Window)
	w.Option(
		app.Title(title),
		app.Size(unit.Dp(size.X), unit.Dp(size.Y)),
	)
	s.SetInvalidate(w.Invalidate)
	defer s.SetInvalidate(nil)

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			page := s.Size()
			if page.X > 0 && page.Y > 0 {
				scale := f32.Pt(float32(e.Size.X)/float32(page.X), float32(e.Size.Y)/float32(page.Y))
				stack := op.Affine(f32.Affine2D{}.Scale(f32.Point{}, scale)).Push(gtx.Ops)
				s.Replay(gtx.Ops)
				stack.Pop()
			}
			e.Frame(gtx.Ops)
		}
	}
}
