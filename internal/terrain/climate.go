package terrain

import (
	"math"

	"github.com/lawnchairsociety/worldforge/internal/noise"
)

const (
	humidityPeakTemperature = 0.6
	moistureOctaves         = 3
)

// Latitude maps a row to [-1,1], with the equator at the middle row.
func Latitude(y, height int) float64 {
	if height <= 1 {
		return 0
	}
	return float64(y)/float64(height-1)*2 - 1
}

// Temperature cools with distance from the equator and with altitude.
// seasonal is a [0,1] noise sample.
func Temperature(latitude, elevation, seasonal float64) float64 {
	base := 1 - math.Abs(latitude)
	altitude := 1 - elevation*0.7
	return clamp01(base*0.5 + altitude*0.3 + seasonal*0.2)
}

// Humidity blends moisture noise, a term peaking at temperature 0.6 and an
// elevation penalty.
func Humidity(moisture, temperature, elevation float64) float64 {
	proximity := clamp01(1 - math.Abs(temperature-humidityPeakTemperature)/humidityPeakTemperature)
	return clamp01(moisture*0.4 + proximity*0.4 + (1-elevation)*0.2)
}

// Climate holds per-cell temperature and humidity grids.
type Climate struct {
	Width       int
	Height      int
	Temperature []float64
	Humidity    []float64
}

// TemperatureAt returns the temperature at (x, y).
func (c *Climate) TemperatureAt(x, y int) float64 {
	return c.Temperature[y*c.Width+x]
}

// HumidityAt returns the humidity at (x, y).
func (c *Climate) HumidityAt(x, y int) float64 {
	return c.Humidity[y*c.Width+x]
}

// ClimateModel derives climate from a heightmap and two seeded noise fields.
type ClimateModel struct {
	seasonal *noise.Field
	moisture *noise.Field
}

// NewClimateModel creates a climate model for the given seed.
func NewClimateModel(seed int64, temperatureScale, rainfallScale float64) *ClimateModel {
	return &ClimateModel{
		seasonal: noise.NewField(seed+1, temperatureScale),
		moisture: noise.NewField(seed+2, rainfallScale),
	}
}

// Apply computes the climate of every cell.
func (m *ClimateModel) Apply(hm *Heightmap) *Climate {
	c := &Climate{
		Width:       hm.Width,
		Height:      hm.Height,
		Temperature: make([]float64, len(hm.Values)),
		Humidity:    make([]float64, len(hm.Values)),
	}
	for y := 0; y < hm.Height; y++ {
		lat := Latitude(y, hm.Height)
		for x := 0; x < hm.Width; x++ {
			i := y*hm.Width + x
			fx, fy := float64(x), float64(y)
			elev := hm.Values[i]
			t := Temperature(lat, elev, m.seasonal.At(fx, fy))
			c.Temperature[i] = t
			c.Humidity[i] = Humidity(m.moisture.Octaves(fx, fy, moistureOctaves), t, elev)
		}
	}
	return c
}
