package proximity

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"explore-engine/internal/geom"
)

// rawDataset mirrors the on-disk layout. The legacy keys (stones, locations, href) and the
// descriptive ones (collectibles, hotspots, target) are both accepted. JSON is valid YAML,
// so one decoder reads either format.
type rawDataset struct {
	Stones       []rawCollectible `yaml:"stones"`
	Collectibles []rawCollectible `yaml:"collectibles"`
	Locations    []rawHotspot     `yaml:"locations"`
	Hotspots     []rawHotspot     `yaml:"hotspots"`
}

type rawCollectible struct {
	ID  int       `yaml:"id"`
	Pos []float32 `yaml:"pos"`
}

type rawHotspot struct {
	ID     int       `yaml:"id"`
	Pos    []float32 `yaml:"pos"`
	Href   string    `yaml:"href"`
	Target string    `yaml:"target"`
}

// component returns pos[i], or 0 when the coordinate is missing.
func component(pos []float32, i int) float32 {
	if i < len(pos) {
		return pos[i]
	}
	return 0
}

// LoadDataset decodes a dataset from r. An empty document is an empty dataset.
func LoadDataset(r io.Reader) (Dataset, error) {
	var raw rawDataset
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}

	var ds Dataset
	for _, c := range append(raw.Stones, raw.Collectibles...) {
		ds.Collectibles = append(ds.Collectibles, Collectible{
			ID:       c.ID,
			Position: geom.V3(component(c.Pos, 0), component(c.Pos, 1), component(c.Pos, 2)),
		})
	}
	for _, h := range append(raw.Locations, raw.Hotspots...) {
		target := h.Target
		if target == "" {
			target = h.Href
		}
		ds.Hotspots = append(ds.Hotspots, Hotspot{
			ID:       h.ID,
			Position: geom.Vec2{X: component(h.Pos, 0), Y: component(h.Pos, 1)},
			Target:   target,
		})
	}
	return ds, nil
}

// LoadDatasetFile opens path and decodes it with LoadDataset.
func LoadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadDataset(f)
}
