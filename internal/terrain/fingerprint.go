package terrain

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint digests every generated value of a world. Two worlds with the
// same fingerprint are bit-identical.
func Fingerprint(w *WorldData) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only a key over 64 bytes fails.
		panic(err)
	}
	d := digest{h: h}

	d.int(w.Width)
	d.int(w.Height)
	d.int(int(w.Seed))
	d.float(w.SeaLevel)
	if w.Heightmap != nil {
		for _, v := range w.Heightmap.Values {
			d.float(v)
		}
	}
	for y := range w.Tiles {
		for x := range w.Tiles[y] {
			d.tile(&w.Tiles[y][x])
		}
	}
	for _, r := range w.Rivers {
		d.int(r.ID)
		d.int(r.ParentID)
		d.points(r.Path)
		d.float(r.Width)
		d.float(r.Depth)
		d.float(r.FlowRate)
		d.ints(r.Tributaries)
		d.points(r.Crossings)
	}
	for _, l := range w.Lakes {
		d.int(l.ID)
		d.points([]Point{l.Center})
		d.int(l.Radius)
		d.float(l.Depth)
		d.int(int(l.WaterType))
		d.ints(l.Inflow)
		d.int(l.OutflowID)
		d.float(l.Volume)
	}
	for _, c := range w.Continents {
		d.int(c.Area)
		d.ints(c.Rivers)
		d.ints(c.Lakes)
	}
	for _, is := range w.Islands {
		d.int(is.Area)
		d.int(int(is.Type))
	}
	for _, m := range w.MountainRanges {
		d.points(m.Path)
	}
	for _, c := range w.Caves {
		d.points([]Point{c.Entrance})
		d.int(c.Depth)
		d.int(c.Length)
	}
	return hex.EncodeToString(h.Sum(nil))
}

type digest struct {
	h   hash.Hash
	buf [8]byte
}

func (d *digest) int(v int) {
	binary.LittleEndian.PutUint64(d.buf[:], uint64(int64(v)))
	d.h.Write(d.buf[:])
}

func (d *digest) float(v float64) {
	binary.LittleEndian.PutUint64(d.buf[:], math.Float64bits(v))
	d.h.Write(d.buf[:])
}

func (d *digest) ints(vs []int) {
	d.int(len(vs))
	for _, v := range vs {
		d.int(v)
	}
}

func (d *digest) points(ps []Point) {
	d.int(len(ps))
	for _, p := range ps {
		d.int(p.X)
		d.int(p.Y)
	}
}

func (d *digest) tile(t *Tile) {
	d.float(t.Elevation)
	d.float(t.Temperature)
	d.float(t.Humidity)
	d.float(t.Fertility)
	d.float(t.SoilQuality)
	d.float(t.VegetationDensity)
	d.float(t.MineralContent)
	d.float(t.Erosion)
	d.float(t.Accessibility)
	d.int(int(t.Biome))
	d.int(int(t.Type))
	d.int(int(t.Ownership.Kind))
	d.int(t.Ownership.Index)
	d.int(t.RiverID)
	d.int(t.LakeID)
	d.int(len(t.Resources))
	for _, r := range t.Resources {
		d.int(int(r.Kind))
		d.float(r.Amount)
	}
}
