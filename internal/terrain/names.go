package terrain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	ErrUnknownBiome     = errors.New("unknown biome")
	ErrUnknownTerrain   = errors.New("unknown terrain type")
	ErrUnknownFireState = errors.New("unknown fire state")
	ErrUnknownResource  = errors.New("unknown resource")
)

// ParseBiome resolves a biome name such as "temperate_forest".
func ParseBiome(s string) (Biome, error) {
	return lookupName(biomeNames, s, ErrUnknownBiome)
}

// ParseTerrainType resolves a terrain type name such as "farm".
func ParseTerrainType(s string) (TerrainType, error) {
	return lookupName(terrainNames, s, ErrUnknownTerrain)
}

// ParseFireState resolves "none" or "burning".
func ParseFireState(s string) (FireState, error) {
	return lookupName(fireNames, s, ErrUnknownFireState)
}

// ParseResourceKind resolves a resource name such as "metal".
func ParseResourceKind(s string) (ResourceKind, error) {
	return lookupName(resourceNames, s, ErrUnknownResource)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// lookupName matches input against names, suggesting the closest name when
// it is within edit distance.
func lookupName[T comparable](names map[T]string, input string, notFound error) (T, error) {
	key := normalizeName(input)
	for v, name := range names {
		if name == key {
			return v, nil
		}
	}

	var zero T
	candidates := make([]string, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)

	best, bestDist := "", -1
	for _, name := range candidates {
		dist := levenshtein.ComputeDistance(key, name)
		if dist > levenshteinLimit(len(name)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = name, dist
		}
	}
	if best != "" {
		return zero, fmt.Errorf("%w %q, did you mean %q?", notFound, input, best)
	}
	return zero, fmt.Errorf("%w %q", notFound, input)
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// MarshalText encodes the biome by name.
func (b Biome) MarshalText() ([]byte, error) {
	if _, ok := biomeNames[b]; !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownBiome, int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText decodes a biome name.
func (b *Biome) UnmarshalText(text []byte) error {
	v, err := ParseBiome(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// MarshalText encodes the terrain type by name.
func (t TerrainType) MarshalText() ([]byte, error) {
	if _, ok := terrainNames[t]; !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownTerrain, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a terrain type name.
func (t *TerrainType) UnmarshalText(text []byte) error {
	v, err := ParseTerrainType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText encodes the fire state by name.
func (f FireState) MarshalText() ([]byte, error) {
	if _, ok := fireNames[f]; !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownFireState, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText decodes a fire state name.
func (f *FireState) UnmarshalText(text []byte) error {
	v, err := ParseFireState(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalText encodes the resource kind by name.
func (r ResourceKind) MarshalText() ([]byte, error) {
	if _, ok := resourceNames[r]; !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownResource, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a resource kind name.
func (r *ResourceKind) UnmarshalText(text []byte) error {
	v, err := ParseResourceKind(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MarshalText encodes the region kind by name.
func (k RegionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a region kind name.
func (k *RegionKind) UnmarshalText(text []byte) error {
	v, err := lookupName(regionNames, string(text), errors.New("unknown region kind"))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MarshalText encodes the water type by name.
func (w WaterType) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// MarshalText encodes the island type by name.
func (t IslandType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a water type name.
func (w *WaterType) UnmarshalText(text []byte) error {
	v, err := lookupName(waterNames, string(text), errors.New("unknown water type"))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// UnmarshalText decodes an island type name.
func (t *IslandType) UnmarshalText(text []byte) error {
	v, err := lookupName(islandNames, string(text), errors.New("unknown island type"))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
