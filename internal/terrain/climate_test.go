package terrain

import "testing"

func TestLatitude(t *testing.T) {
	tests := []struct {
		y, height int
		expected  float64
	}{
		{0, 9, -1},
		{4, 9, 0},
		{8, 9, 1},
		{0, 1, 0},
	}
	for _, tt := range tests {
		if got := Latitude(tt.y, tt.height); got != tt.expected {
			t.Errorf("Latitude(%d, %d) = %v, want %v", tt.y, tt.height, got, tt.expected)
		}
	}
}

func TestTemperatureCoolsWithAltitude(t *testing.T) {
	prev := Temperature(0, 0, 0.5)
	for e := 0.1; e <= 1.0; e += 0.1 {
		cur := Temperature(0, e, 0.5)
		if cur > prev {
			t.Errorf("Temperature at elevation %.1f = %v, warmer than %v below it", e, cur, prev)
		}
		prev = cur
	}
}

func TestTemperatureCoolsAwayFromEquator(t *testing.T) {
	prev := Temperature(0, 0.5, 0.5)
	for lat := 0.1; lat <= 1.0; lat += 0.1 {
		for _, sign := range []float64{1, -1} {
			cur := Temperature(lat*sign, 0.5, 0.5)
			if cur > prev {
				t.Errorf("Temperature at latitude %.1f = %v, warmer than %v nearer the equator", lat*sign, cur, prev)
			}
		}
		prev = Temperature(lat, 0.5, 0.5)
	}
}

func TestHumidityPenalizedByElevation(t *testing.T) {
	low := Humidity(0.5, 0.6, 0.1)
	high := Humidity(0.5, 0.6, 0.95)
	if high >= low {
		t.Errorf("Humidity at high elevation = %v, want below %v", high, low)
	}
}

func TestHumidityPeaksNearTemperature(t *testing.T) {
	peak := Humidity(0.5, 0.6, 0.5)
	for _, temp := range []float64{0, 0.2, 0.9, 1} {
		if h := Humidity(0.5, temp, 0.5); h > peak {
			t.Errorf("Humidity at temperature %v = %v, above peak %v", temp, h, peak)
		}
	}
}

func TestClimateModelRange(t *testing.T) {
	hm := NewHeightmap(16, 16)
	for i := range hm.Values {
		hm.Values[i] = float64(i%16) / 15
	}
	c := NewClimateModel(5, 0.05, 0.05).Apply(hm)
	for i := range hm.Values {
		if c.Temperature[i] < 0 || c.Temperature[i] > 1 {
			t.Fatalf("temperature[%d] = %v, outside [0,1]", i, c.Temperature[i])
		}
		if c.Humidity[i] < 0 || c.Humidity[i] > 1 {
			t.Fatalf("humidity[%d] = %v, outside [0,1]", i, c.Humidity[i])
		}
	}
	if c.TemperatureAt(3, 2) != c.Temperature[2*16+3] {
		t.Error("TemperatureAt does not index row-major")
	}
}

func TestClassify(t *testing.T) {
	hm := NewHeightmap(3, 1)
	hm.Values = []float64{0.2, 0.6, 0.7}
	classes := Classify(hm, 0.5)
	want := []CellClass{CellOcean, CellCoast, CellLand}
	for i := range want {
		if classes[i] != want[i] {
			t.Errorf("classes[%d] = %v, want %v", i, classes[i], want[i])
		}
	}
}

func TestIsLand(t *testing.T) {
	if !IsLand(0.5, 0.5) {
		t.Error("IsLand(0.5, 0.5) = false, want true")
	}
	if IsLand(0.49, 0.5) {
		t.Error("IsLand(0.49, 0.5) = true, want false")
	}
}
