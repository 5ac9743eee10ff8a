// Package proximity holds the static scene dataset (collectibles and navigation hotspots)
// and the distance queries the controller runs every frame.
package proximity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jinzhu/copier"

	"explore-engine/internal/geom"
)

// DefaultRadius is the touch distance for both collectibles and hotspots.
const DefaultRadius = 0.5

// ErrDuplicateID is returned when two entries of the same kind share an id.
var ErrDuplicateID = errors.New("duplicate id")

// Collectible is a discoverable point of interest. Its position never changes; whether it
// has been found lives in the visibility store.
type Collectible struct {
	ID       int
	Position geom.Vec3
}

// Hotspot is a ground-plane point that triggers a delayed navigation to Target.
type Hotspot struct {
	ID       int
	Position geom.Vec2
	Target   string
}

// Dataset is the startup-loaded static configuration.
type Dataset struct {
	Collectibles []Collectible
	Hotspots     []Hotspot
}

// Candidate is one query match: the index into the queried slice and its distance.
type Candidate struct {
	Index    int
	Distance float32
}

// NearestWithin scans points and returns every point within radius of p (inclusive),
// nearest first. Ties keep slice order. The scan is linear; datasets here are small.
func NearestWithin(p geom.Vec3, radius float32, points []geom.Vec3) []Candidate {
	var out []Candidate
	for i, q := range points {
		if d := p.Distance(q); d <= radius {
			out = append(out, Candidate{Index: i, Distance: d})
		}
	}
	sortCandidates(out)
	return out
}

// NearestWithin2D is NearestWithin on the ground plane.
func NearestWithin2D(p geom.Vec2, radius float32, points []geom.Vec2) []Candidate {
	var out []Candidate
	for i, q := range points {
		if d := p.Distance(q); d <= radius {
			out = append(out, Candidate{Index: i, Distance: d})
		}
	}
	sortCandidates(out)
	return out
}

func sortCandidates(c []Candidate) {
	sort.SliceStable(c, func(i, j int) bool { return c[i].Distance < c[j].Distance })
}

// Index is the immutable, query-ready form of a Dataset.
type Index struct {
	data             Dataset
	collectiblePos   []geom.Vec3
	hotspotPos       []geom.Vec2
	collectibleIndex map[int]int
	hotspotIndex     map[int]int
}

// NewIndex validates ds and builds an index over a private copy of it.
func NewIndex(ds Dataset) (*Index, error) {
	idx := &Index{
		collectibleIndex: make(map[int]int, len(ds.Collectibles)),
		hotspotIndex:     make(map[int]int, len(ds.Hotspots)),
	}
	if err := copier.CopyWithOption(&idx.data, &ds, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy dataset: %w", err)
	}
	for i, c := range idx.data.Collectibles {
		if _, dup := idx.collectibleIndex[c.ID]; dup {
			return nil, fmt.Errorf("collectible %d: %w", c.ID, ErrDuplicateID)
		}
		idx.collectibleIndex[c.ID] = i
		idx.collectiblePos = append(idx.collectiblePos, c.Position)
	}
	for i, h := range idx.data.Hotspots {
		if _, dup := idx.hotspotIndex[h.ID]; dup {
			return nil, fmt.Errorf("hotspot %d: %w", h.ID, ErrDuplicateID)
		}
		idx.hotspotIndex[h.ID] = i
		idx.hotspotPos = append(idx.hotspotPos, h.Position)
	}
	return idx, nil
}

// CollectibleCount returns how many collectibles are indexed.
func (x *Index) CollectibleCount() int {
	return len(x.data.Collectibles)
}

// HotspotCount returns how many hotspots are indexed.
func (x *Index) HotspotCount() int {
	return len(x.data.Hotspots)
}

// Collectible returns the i-th collectible in dataset order.
func (x *Index) Collectible(i int) Collectible {
	return x.data.Collectibles[i]
}

// Hotspot returns the i-th hotspot in dataset order.
func (x *Index) Hotspot(i int) Hotspot {
	return x.data.Hotspots[i]
}

// HotspotByID looks a hotspot up by id.
func (x *Index) HotspotByID(id int) (Hotspot, int, bool) {
	i, ok := x.hotspotIndex[id]
	if !ok {
		return Hotspot{}, -1, false
	}
	return x.data.Hotspots[i], i, true
}

// CollectibleIDs returns collectible ids in dataset order.
func (x *Index) CollectibleIDs() []int {
	ids := make([]int, len(x.data.Collectibles))
	for i, c := range x.data.Collectibles {
		ids[i] = c.ID
	}
	return ids
}

// CollectiblesWithin returns collectibles within radius of p in 3D.
func (x *Index) CollectiblesWithin(p geom.Vec3, radius float32) []Candidate {
	return NearestWithin(p, radius, x.collectiblePos)
}

// HotspotsWithin returns hotspots within radius of p on the ground plane.
func (x *Index) HotspotsWithin(p geom.Vec2, radius float32) []Candidate {
	return NearestWithin2D(p, radius, x.hotspotPos)
}

// HotspotDistance is the ground-plane distance from p to the i-th hotspot.
func (x *Index) HotspotDistance(i int, p geom.Vec2) float32 {
	return p.Distance(x.hotspotPos[i])
}
