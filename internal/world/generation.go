// Procedural street layout generation using simplex noise.
// Produces a jittered Manhattan grid of roads with lots carved out of the
// blocks between them. Used when no map description file is supplied, and
// by tests that need a nontrivial layout.
package world

import (
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/laubsauger/streetsim/internal/geom"
)

// GenConfig holds street layout generation parameters.
type GenConfig struct {
	Seed      int64   // Random seed (0 = random)
	BlocksX   int     // Blocks along the X axis
	BlocksZ   int     // Blocks along the Z axis
	BlockSize float64 // Nominal block edge length in world units
	RoadWidth float64 // Road surface width
	LotInset  float64 // Setback from the road edge to the lot outline
}

// DefaultGenConfig returns a small-town grid: 5x5 streets, 600-unit blocks.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:      0,
		BlocksX:   4,
		BlocksZ:   4,
		BlockSize: 600,
		RoadWidth: 20,
		LotInset:  40,
	}
}

// Generate creates a complete street layout from the configuration.
// The same seed always produces the same layout.
func Generate(cfg GenConfig) *Layout {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.BlocksX < 1 {
		cfg.BlocksX = 1
	}
	if cfg.BlocksZ < 1 {
		cfg.BlocksZ = 1
	}

	// Independent noise layers: one jitters street positions off the
	// perfect grid, one decides interior street presence, one assigns
	// lot usage.
	jitterNoise := opensimplex.NewNormalized(seed)
	densityNoise := opensimplex.NewNormalized(seed + 1)
	usageNoise := opensimplex.NewNormalized(seed + 2)

	extentX := float64(cfg.BlocksX) * cfg.BlockSize
	extentZ := float64(cfg.BlocksZ) * cfg.BlockSize

	// Street coordinates. Border streets are always present so the grid
	// stays connected; interior streets drop out where density is low,
	// merging adjacent blocks into larger ones.
	xs := streetCoords(cfg.BlocksX, cfg.BlockSize, jitterNoise, densityNoise, 0.35, 0)
	zs := streetCoords(cfg.BlocksZ, cfg.BlockSize, jitterNoise, densityNoise, 0.35, 1000)

	layout := &Layout{}

	for i, x := range xs {
		layout.Roads = append(layout.Roads, RoadSegment{
			ID:          fmt.Sprintf("v%02d", i),
			Orientation: OrientationVertical,
			X:           x - cfg.RoadWidth/2,
			Z:           0,
			Width:       cfg.RoadWidth,
			Depth:       extentZ,
		})
	}
	for i, z := range zs {
		layout.Roads = append(layout.Roads, RoadSegment{
			ID:          fmt.Sprintf("h%02d", i),
			Orientation: OrientationHorizontal,
			X:           0,
			Z:           z - cfg.RoadWidth/2,
			Width:       extentX,
			Depth:       cfg.RoadWidth,
		})
	}

	// Carve lots out of each block: two parcels per block, split along X.
	lotID := 0
	for ix := 0; ix < len(xs)-1; ix++ {
		for iz := 0; iz < len(zs)-1; iz++ {
			x0 := xs[ix] + cfg.RoadWidth/2 + cfg.LotInset
			x1 := xs[ix+1] - cfg.RoadWidth/2 - cfg.LotInset
			z0 := zs[iz] + cfg.RoadWidth/2 + cfg.LotInset
			z1 := zs[iz+1] - cfg.RoadWidth/2 - cfg.LotInset
			if x1-x0 < cfg.LotInset || z1-z0 < cfg.LotInset {
				continue // block too small to hold a parcel
			}
			mid := (x0 + x1) / 2
			halves := [2][2]float64{{x0, mid - cfg.LotInset/2}, {mid + cfg.LotInset/2, x1}}
			for h, hx := range halves {
				cx := (hx[0] + hx[1]) / 2
				cz := (z0 + z1) / 2
				usage := usageFor(usageNoise.Eval2(cx/cfg.BlockSize, cz/cfg.BlockSize))
				layout.Lots = append(layout.Lots, Lot{
					ID:      fmt.Sprintf("lot%03d", lotID),
					Address: fmt.Sprintf("%d %s %d", 100+lotID, sideName(h), iz+1),
					Usage:   usage,
					Outline: geom.NewPolygon(
						geom.Point{X: hx[0], Z: z0},
						geom.Point{X: hx[1], Z: z0},
						geom.Point{X: hx[1], Z: z1},
						geom.Point{X: hx[0], Z: z1},
					),
				})
				lotID++
			}
		}
	}

	return layout
}

// streetCoords lays out count+1 street center lines, jittered off the grid
// and with low-density interior streets removed.
func streetCoords(count int, blockSize float64, jitter, density opensimplex.Noise, dropBelow float64, layer float64) []float64 {
	coords := make([]float64, 0, count+1)
	for i := 0; i <= count; i++ {
		base := float64(i) * blockSize
		interior := i > 0 && i < count
		if interior && density.Eval2(float64(i)*1.7, layer) < dropBelow {
			continue
		}
		j := 0.0
		if interior {
			// Jitter up to a quarter block either way.
			j = (jitter.Eval2(float64(i)*2.3, layer) - 0.5) * blockSize / 2
		}
		coords = append(coords, base+j)
	}
	return coords
}

func usageFor(n float64) LotUsage {
	switch {
	case n < 0.15:
		return LotPark
	case n < 0.40:
		return LotCommercial
	default:
		return LotResidential
	}
}

func sideName(half int) string {
	if half == 0 {
		return "West"
	}
	return "East"
}
