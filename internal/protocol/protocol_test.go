package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lawnchairsociety/worldforge/internal/terrain"
)

func TestRequestSchemaCompiles(t *testing.T) {
	if _, err := RequestSchema(); err != nil {
		t.Fatalf("RequestSchema() error = %v", err)
	}
}

func TestDecodeRequestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, r Request)
	}{
		{"get_tile", `{"id":"1","op":"get_tile","x":3,"y":4}`, func(t *testing.T, r Request) {
			if r.ID != "1" || r.X != 3 || r.Y != 4 {
				t.Errorf("got %+v", r)
			}
		}},
		{"update_tile", `{"op":"update_tile","x":0,"y":0,"patch":{"soil_quality":0.9,"biome":"temperate forest","resources":[{"kind":"wood","amount":12}]}}`, func(t *testing.T, r Request) {
			if r.Patch == nil || r.Patch.SoilQuality == nil || *r.Patch.SoilQuality != 0.9 {
				t.Fatalf("patch = %+v", r.Patch)
			}
			if r.Patch.Biome == nil || *r.Patch.Biome != terrain.BiomeTemperateForest {
				t.Errorf("biome = %v", r.Patch.Biome)
			}
			if len(r.Patch.Resources) != 1 || r.Patch.Resources[0].Kind != terrain.ResourceWood {
				t.Errorf("resources = %+v", r.Patch.Resources)
			}
		}},
		{"update_tiles", `{"op":"update_tiles","updates":[{"x":1,"y":2,"patch":{"fire_state":"burning"}},{"x":2,"y":2,"patch":{"type":"farm"}}]}`, func(t *testing.T, r Request) {
			if len(r.Updates) != 2 {
				t.Fatalf("updates = %d", len(r.Updates))
			}
			if r.Updates[0].Patch.FireState == nil || *r.Updates[0].Patch.FireState != terrain.FireBurning {
				t.Errorf("update 0 = %+v", r.Updates[0].Patch)
			}
			if r.Updates[1].Patch.Type == nil || *r.Updates[1].Patch.Type != terrain.TerrainFarm {
				t.Errorf("update 1 = %+v", r.Updates[1].Patch)
			}
		}},
		{"apply_building", `{"op":"apply_building","x":1,"y":1,"building":"mill"}`, func(t *testing.T, r Request) {
			if r.Building != "mill" {
				t.Errorf("building = %q", r.Building)
			}
		}},
		{"apply_erosion", `{"op":"apply_erosion","x":1,"y":1,"intensity":0.25}`, func(t *testing.T, r Request) {
			if r.Intensity != 0.25 {
				t.Errorf("intensity = %v", r.Intensity)
			}
		}},
		{"apply_age", `{"op":"apply_age","x":1,"y":1,"years":50}`, func(t *testing.T, r Request) {
			if r.Years != 50 {
				t.Errorf("years = %v", r.Years)
			}
		}},
		{"statistics", `{"op":"statistics"}`, nil},
		{"summary", `{"op":"summary","id":"abc"}`, nil},
		{"start_fire", `{"op":"start_fire","x":0,"y":9}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeRequest([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeRequest() error = %v", err)
			}
			if r.Op != tt.name {
				t.Errorf("Op = %q, want %q", r.Op, tt.name)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestDecodeRequestInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"op":`},
		{"not an object", `[1,2]`},
		{"missing op", `{"x":1,"y":1}`},
		{"unknown op", `{"op":"terraform"}`},
		{"missing coords", `{"op":"get_tile","x":1}`},
		{"fractional coords", `{"op":"get_tile","x":1.5,"y":1}`},
		{"missing patch", `{"op":"update_tile","x":1,"y":1}`},
		{"empty patch", `{"op":"update_tile","x":1,"y":1,"patch":{}}`},
		{"unknown patch field", `{"op":"update_tile","x":1,"y":1,"patch":{"elevaton":0.5}}`},
		{"unknown field", `{"op":"statistics","verbose":true}`},
		{"empty updates", `{"op":"update_tiles","updates":[]}`},
		{"missing building", `{"op":"apply_building","x":1,"y":1}`},
		{"missing intensity", `{"op":"apply_erosion","x":1,"y":1}`},
		{"missing years", `{"op":"apply_age","x":1,"y":1}`},
		{"negative age", `{"op":"update_tile","x":1,"y":1,"patch":{"age":-3}}`},
		{"resource over max", `{"op":"update_tile","x":1,"y":1,"patch":{"resources":[{"kind":"wood","amount":101}]}}`},
		{"string number", `{"op":"apply_age","x":1,"y":1,"years":"ten"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tt.input))
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("DecodeRequest(%s) error = %v, want ErrInvalidRequest", tt.input, err)
			}
		})
	}
}

func TestDecodeRequestUnknownName(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"op":"update_tile","x":1,"y":1,"patch":{"biome":"grasland"}}`))
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
	if !errors.Is(err, terrain.ErrUnknownBiome) {
		t.Errorf("error = %v, want it to wrap ErrUnknownBiome", err)
	}
	if !strings.Contains(err.Error(), `did you mean "grassland"`) {
		t.Errorf("error %q should suggest grassland", err)
	}
}

func TestDecodeRequestKeepsID(t *testing.T) {
	r, err := DecodeRequest([]byte(`{"id":"req-7","op":"get_tile"}`))
	if err == nil {
		t.Fatal("expected an error for missing coordinates")
	}
	if r.ID != "req-7" || r.Op != OpGetTile {
		t.Errorf("partial request = %+v, want id req-7 op get_tile", r)
	}
}

func TestRequestMutating(t *testing.T) {
	tests := []struct {
		op   string
		want bool
	}{
		{OpGetTile, false},
		{OpStatistics, false},
		{OpSummary, false},
		{OpUpdateTile, true},
		{OpUpdateTiles, true},
		{OpApplyFarming, true},
		{OpStartFire, true},
	}
	for _, tt := range tests {
		if got := (Request{Op: tt.op}).Mutating(); got != tt.want {
			t.Errorf("Request{Op: %q}.Mutating() = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestFailureResponse(t *testing.T) {
	resp := Failure(Request{ID: "9", Op: OpGetTile}, CodeOutOfBounds, "tile out of bounds")
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"9","op":"get_tile","ok":false,"error":{"code":"E_OUT_OF_BOUNDS","message":"tile out of bounds"}}`
	if string(b) != want {
		t.Errorf("Marshal(Failure) = %s, want %s", b, want)
	}
}

func TestSummaryFlattens(t *testing.T) {
	s := WorldSummary{WorldID: "w1", Summary: terrain.Summary{Width: 4, Height: 2, Seed: 3}}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["world_id"] != "w1" || m["width"] != float64(4) || m["seed"] != float64(3) {
		t.Errorf("summary JSON = %s", b)
	}
}
