package dashboard

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spektr-org/atlas/render"
)

// Caption is the line stamped on raster exports and on-screen images:
// "2020 · Poorest 50% · map: life".
func (c *Controller) Caption() string {
	st := c.State()
	return fmt.Sprintf("%d · %s · map: %s", st.Year, series(c.schema, st.PovertyMetric).Name, st.MapMetric)
}

// Image rasterises one view with the caption stamped in its corner.
func (c *Controller) Image(name string) (image.Image, error) {
	s := c.surface(name)
	if s == nil {
		return nil, fmt.Errorf("unknown view %q", name)
	}
	img, err := render.Raster(s)
	if err != nil {
		return nil, fmt.Errorf("rasterise %s: %w", name, err)
	}
	return render.StampHint(img, c.Caption()), nil
}

// WriteView encodes one view as SVG or PNG. PNG output carries the caption.
func (c *Controller) WriteView(name string, w io.Writer, format render.Format) error {
	s := c.surface(name)
	if s == nil {
		return fmt.Errorf("unknown view %q", name)
	}
	if format == render.FormatSVG {
		return render.Export(s, w, format)
	}
	img, err := c.Image(name)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Export writes every view into dir as <view>.<format>, in redraw order,
// and returns the written paths.
func (c *Controller) Export(dir string, format render.Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	var paths []string
	for _, name := range ViewOrder {
		path := filepath.Join(dir, name+format.Ext())
		if err := c.writeFile(path, name, format); err != nil {
			return paths, err
		}
		log.Printf("💾 Atlas: wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func (c *Controller) writeFile(path, name string, format render.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.WriteView(name, f, format); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", name, err)
	}
	return f.Close()
}
