package mode

// Coord is a character cell position or size.
type Coord struct {
	X, Y int16
}

// Rect is an inclusive character cell rectangle.
type Rect struct {
	Left, Top, Right, Bottom int16
}

// Width returns the number of columns covered by the rectangle.
func (r Rect) Width() int16 { return r.Right - r.Left + 1 }

// Height returns the number of lines covered by the rectangle.
func (r Rect) Height() int16 { return r.Bottom - r.Top + 1 }

// BufferInfo describes a console screen buffer and its visible window.
type BufferInfo struct {
	Size   Coord
	Cursor Coord
	Window Rect
}

// ScreenBuffer is the part of the console collaborator used for resizing.
// SetBufferSize fails when the buffer would become smaller than the window,
// and SetWindow fails when the window would become larger than the buffer.
type ScreenBuffer interface {
	BufferInfo() (BufferInfo, error)
	SetBufferSize(size Coord) error
	SetWindow(window Rect) error
}

// ResizeConsole resizes the screen buffer and window to target. The window
// is shrunk first when it is larger than the target, then the buffer is
// resized, then the window is placed so that it spans the full width and
// keeps the cursor row visible.
func ResizeConsole(sb ScreenBuffer, target ConsoleGeometry) error {
	info, err := sb.BufferInfo()
	if err != nil {
		return queryFailed("CON", err)
	}

	oldWidth := info.Window.Width()
	oldHeight := info.Window.Height()
	if oldWidth > target.Columns || oldHeight > target.Lines {
		shrunk := Rect{
			Right:  min(oldWidth, target.Columns) - 1,
			Bottom: min(oldHeight, target.Lines) - 1,
		}
		if err := sb.SetWindow(shrunk); err != nil {
			return applyFailed("CON", err)
		}
	}

	if info.Size.X != target.Columns || info.Size.Y != target.Lines {
		if err := sb.SetBufferSize(Coord{X: target.Columns, Y: target.Lines}); err != nil {
			return applyFailed("CON", err)
		}
		// Resizing may scroll the buffer and move the cursor.
		if info, err = sb.BufferInfo(); err != nil {
			return queryFailed("CON", err)
		}
	}

	bottom := max(info.Cursor.Y, target.Lines-1)
	window := Rect{
		Left:   0,
		Right:  target.Columns - 1,
		Bottom: bottom,
		Top:    bottom - target.Lines + 1,
	}
	if err := sb.SetWindow(window); err != nil {
		return applyFailed("CON", err)
	}
	return nil
}
