package faces

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/drakos74/face-bench/internal/math/ml"
	"github.com/rs/zerolog/log"
	_ "github.com/spakin/netpbm"
)

var extensions = map[string]bool{
	".pgm":  true,
	".pnm":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Dir reads a tree of one directory per subject, e.g. the ORL layout s1/1.pgm ... s40/10.pgm.
// Every image becomes a sample of gray levels in [0, 1], labelled with the subject number.
type Dir struct {
	Root string
	// Scale shrinks the images by the given integer factor, averaging each Scale×Scale block.
	Scale int
}

// NewDir creates a loader for the given root directory.
func NewDir(root string, scale int) *Dir {
	return &Dir{
		Root:  root,
		Scale: scale,
	}
}

func (d *Dir) Load() (*ml.Dataset, error) {
	scale := d.Scale
	if scale < 1 {
		scale = 1
	}
	subjects, err := ioutil.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("could not read dataset root '%s': %w", d.Root, err)
	}
	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].Name() < subjects[j].Name()
	})

	samples := make([]ml.Sample, 0)
	var w, h int
	for _, s := range subjects {
		if !s.IsDir() {
			continue
		}
		label, err := subject(s.Name())
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(d.Root, s.Name())
		files, err := ioutil.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("could not read subject '%s': %w", dir, err)
		}
		sort.Slice(files, func(i, j int) bool {
			return files[i].Name() < files[j].Name()
		})
		for _, f := range files {
			if f.IsDir() || !extensions[strings.ToLower(filepath.Ext(f.Name()))] {
				continue
			}
			img, err := decode(filepath.Join(dir, f.Name()))
			if err != nil {
				return nil, err
			}
			var features []float64
			features, w, h = Pixels(img, scale)
			samples = append(samples, ml.Sample{
				Features: features,
				Label:    label,
			})
		}
	}

	ds, err := ml.NewDataset(samples)
	if err != nil {
		return nil, fmt.Errorf("could not load '%s': %w", d.Root, err)
	}
	log.Info().
		Str("root", d.Root).
		Int("subjects", len(ds.Classes())).
		Int("images", ds.Len()).
		Int("width", w).
		Int("height", h).
		Msg("loaded faces")
	return ds, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image '%s': %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode image '%s': %v: %w", path, err, ml.DataErr)
	}
	return img, nil
}

// Pixels flattens the image row by row into gray levels in [0, 1].
// With scale > 1 every scale×scale block is averaged into one pixel and
// the incomplete blocks at the right and bottom edges are dropped.
func Pixels(img image.Image, scale int) (pixels []float64, w, h int) {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	w, h = b.Dx()/scale, b.Dy()/scale
	pixels = make([]float64, w*h)
	norm := float64(scale*scale) * 0xffff
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					px := img.At(b.Min.X+x*scale+dx, b.Min.Y+y*scale+dy)
					sum += float64(color.Gray16Model.Convert(px).(color.Gray16).Y)
				}
			}
			pixels[y*w+x] = sum / norm
		}
	}
	return pixels, w, h
}
