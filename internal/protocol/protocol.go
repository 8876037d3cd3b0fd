// Package protocol defines the JSON messages of the tile API.
package protocol

import (
	"github.com/lawnchairsociety/worldforge/internal/terrain"
	"github.com/lawnchairsociety/worldforge/internal/tilestore"
)

// Request operations.
const (
	OpGetTile        = "get_tile"
	OpUpdateTile     = "update_tile"
	OpUpdateTiles    = "update_tiles"
	OpApplyFarming   = "apply_farming"
	OpApplyBuilding  = "apply_building"
	OpApplyErosion   = "apply_erosion"
	OpApplyAge       = "apply_age"
	OpStartFire      = "start_fire"
	OpExtinguishFire = "extinguish_fire"
	OpStatistics     = "statistics"
	OpSummary        = "summary"
)

// Error codes carried in Response.Error.
const (
	CodeBadRequest  = "E_BAD_REQUEST"
	CodeOutOfBounds = "E_OUT_OF_BOUNDS"
	CodeWaterTile   = "E_WATER_TILE"
	CodeReadOnly    = "E_READ_ONLY"
	CodeRateLimited = "E_RATE_LIMITED"
	CodeInternal    = "E_INTERNAL"
)

// Request is a client message. Which fields are required depends on Op.
type Request struct {
	ID        string             `json:"id,omitempty"`
	Op        string             `json:"op"`
	X         int                `json:"x"`
	Y         int                `json:"y"`
	Patch     *tilestore.Patch   `json:"patch,omitempty"`
	Updates   []tilestore.Update `json:"updates,omitempty"`
	Building  string             `json:"building,omitempty"`
	Intensity float64            `json:"intensity,omitempty"`
	Years     float64            `json:"years,omitempty"`
}

// Mutating reports whether the operation changes tile state.
func (r Request) Mutating() bool {
	switch r.Op {
	case OpGetTile, OpStatistics, OpSummary:
		return false
	}
	return true
}

// Response answers one Request. ID and Op echo the request.
type Response struct {
	ID         string                `json:"id,omitempty"`
	Op         string                `json:"op"`
	OK         bool                  `json:"ok"`
	Tile       *terrain.Tile         `json:"tile,omitempty"`
	Applied    *int                  `json:"applied,omitempty"`
	Statistics *tilestore.Statistics `json:"statistics,omitempty"`
	Summary    *WorldSummary         `json:"summary,omitempty"`
	Error      *Error                `json:"error,omitempty"`
}

// WorldSummary is the summary payload. WorldID is the archive id, empty
// when archiving is off.
type WorldSummary struct {
	WorldID string `json:"world_id,omitempty"`
	terrain.Summary
}

// Error is a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Failure builds an error response for req.
func Failure(req Request, code, message string) Response {
	return Response{ID: req.ID, Op: req.Op, Error: &Error{Code: code, Message: message}}
}
