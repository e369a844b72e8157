package visualizer

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

const (
	colorBackdrop = "#001100"
	colorNormal   = "#00ff00"
	colorAlert    = "#ff0000"
	pointSize     = 2
)

// SVG renders the frame as a standalone SVG document.
func (fr Frame) SVG() []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(fr.Width, fr.Height)
	canvas.Rect(0, 0, fr.Width, fr.Height, "fill:"+colorBackdrop)

	fill := colorNormal
	if fr.Alert {
		fill = colorAlert
	}
	canvas.Gstyle("fill:" + fill)
	for _, p := range fr.Points {
		canvas.Rect(clamp(p.X, fr.Width), clamp(p.Y, fr.Height), pointSize, pointSize)
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

// WriteSVG writes the SVG document of fr to w.
func WriteSVG(w io.Writer, fr Frame) error {
	if _, err := w.Write(fr.SVG()); err != nil {
		return fmt.Errorf("write svg frame: %w", err)
	}
	return nil
}

func clamp(v float64, limit int) int {
	i := int(math.Floor(v))
	if i < 0 {
		return 0
	}
	if i > limit-pointSize {
		return max(limit-pointSize, 0)
	}
	return i
}
