package surface

import (
	"math"
	"sort"

	"github.com/terramensura/heapvol/internal/data"
)

// bucketIndex shards points into square buckets so that nearest-neighbour
// lookups during interpolation only visit a small ring of buckets instead of
// scanning the whole terrain subset.
type bucketIndex struct {
	points     []data.Point
	bucketSize float64
	minX       float64
	minY       float64
	nx         int
	ny         int
	buckets    [][]int32
}

type neighbour struct {
	idx  int32
	dist float64
}

func newBucketIndex(points []data.Point, minX, minY, width, height float64) *bucketIndex {
	// aim for a handful of points per bucket on average
	area := math.Max(width*height, 1e-9)
	size := math.Sqrt(area/float64(len(points))) * 2
	if size <= 0 || math.IsNaN(size) {
		size = 1
	}
	idx := &bucketIndex{
		points:     points,
		bucketSize: size,
		minX:       minX,
		minY:       minY,
		nx:         int(width/size) + 1,
		ny:         int(height/size) + 1,
	}
	idx.buckets = make([][]int32, idx.nx*idx.ny)
	for i, p := range points {
		b := idx.bucketOf(p.X, p.Y)
		idx.buckets[b] = append(idx.buckets[b], int32(i))
	}
	return idx
}

func (idx *bucketIndex) bucketOf(x, y float64) int {
	bx := int((x - idx.minX) / idx.bucketSize)
	by := int((y - idx.minY) / idx.bucketSize)
	bx = clampInt(bx, 0, idx.nx-1)
	by = clampInt(by, 0, idx.ny-1)
	return by*idx.nx + bx
}

// nearest returns up to k points closest to x,y ordered by distance. It
// expands the bucket ring until the kth best distance cannot be beaten by any
// point in an unvisited ring.
func (idx *bucketIndex) nearest(x, y float64, k int) []neighbour {
	if k > len(idx.points) {
		k = len(idx.points)
	}
	bx := clampInt(int((x-idx.minX)/idx.bucketSize), 0, idx.nx-1)
	by := clampInt(int((y-idx.minY)/idx.bucketSize), 0, idx.ny-1)

	var found []neighbour
	maxRing := idx.nx
	if idx.ny > maxRing {
		maxRing = idx.ny
	}
	for ring := 0; ring <= maxRing; ring++ {
		for _, b := range idx.ringBuckets(bx, by, ring) {
			for _, pi := range idx.buckets[b] {
				p := idx.points[pi]
				d := math.Hypot(p.X-x, p.Y-y)
				found = append(found, neighbour{idx: pi, dist: d})
			}
		}
		if len(found) >= k {
			sort.Slice(found, func(i, j int) bool { return found[i].dist < found[j].dist })
			// the next unvisited ring is at least this far away
			ringDist := float64(ring) * idx.bucketSize
			if found[k-1].dist <= ringDist {
				return found[:k]
			}
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].dist < found[j].dist })
	if len(found) > k {
		found = found[:k]
	}
	return found
}

// ringBuckets lists the bucket indices on the square ring of the given radius
// around bx,by, clipped to the index extent.
func (idx *bucketIndex) ringBuckets(bx, by, ring int) []int {
	var out []int
	if ring == 0 {
		return append(out, by*idx.nx+bx)
	}
	for x := bx - ring; x <= bx+ring; x++ {
		if x < 0 || x >= idx.nx {
			continue
		}
		for _, y := range []int{by - ring, by + ring} {
			if y >= 0 && y < idx.ny {
				out = append(out, y*idx.nx+x)
			}
		}
	}
	for y := by - ring + 1; y <= by+ring-1; y++ {
		if y < 0 || y >= idx.ny {
			continue
		}
		for _, x := range []int{bx - ring, bx + ring} {
			if x >= 0 && x < idx.nx {
				out = append(out, y*idx.nx+x)
			}
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
