package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lawnchairsociety/worldforge/internal/logger"
	"github.com/lawnchairsociety/worldforge/internal/protocol"
	"github.com/lawnchairsociety/worldforge/internal/terrain"
	"github.com/lawnchairsociety/worldforge/internal/tilestore"
	"github.com/lawnchairsociety/worldforge/internal/world"
)

// Handle runs one decoded request against the backend.
func (s *Server) Handle(req protocol.Request) protocol.Response {
	resp := protocol.Response{ID: req.ID, Op: req.Op}

	var (
		tile terrain.Tile
		err  error
	)
	switch req.Op {
	case protocol.OpGetTile:
		tile, err = s.backend.TileState(req.X, req.Y)
	case protocol.OpUpdateTile:
		if req.Patch == nil {
			return protocol.Failure(req, protocol.CodeBadRequest, "patch is required")
		}
		tile, err = s.backend.UpdateTileState(req.X, req.Y, *req.Patch)
	case protocol.OpApplyFarming:
		tile, err = s.backend.ApplyFarming(req.X, req.Y)
	case protocol.OpApplyBuilding:
		tile, err = s.backend.ApplyBuilding(req.X, req.Y, req.Building)
	case protocol.OpApplyErosion:
		tile, err = s.backend.ApplyErosion(req.X, req.Y, req.Intensity)
	case protocol.OpApplyAge:
		tile, err = s.backend.ApplyAgeEffects(req.X, req.Y, req.Years)
	case protocol.OpStartFire:
		tile, err = s.backend.StartFire(req.X, req.Y)
	case protocol.OpExtinguishFire:
		tile, err = s.backend.ExtinguishFire(req.X, req.Y)

	case protocol.OpUpdateTiles:
		// Applied is reported even when some updates fail.
		n, err := s.backend.UpdateTileStates(req.Updates)
		resp.Applied = &n
		if err != nil {
			return s.fail(req, resp, err)
		}
		resp.OK = true
		logger.Always("Tiles updated", "requested", len(req.Updates), "applied", n)
		return resp

	case protocol.OpStatistics:
		stats, err := s.backend.Statistics()
		if err != nil {
			return s.fail(req, resp, err)
		}
		resp.OK = true
		resp.Statistics = &stats
		return resp

	case protocol.OpSummary:
		resp.OK = true
		resp.Summary = &protocol.WorldSummary{WorldID: s.backend.WorldID(), Summary: s.backend.Summary()}
		return resp

	default:
		return protocol.Failure(req, protocol.CodeBadRequest, fmt.Sprintf("unknown op %q", req.Op))
	}

	if err != nil {
		return s.fail(req, resp, err)
	}
	resp.OK = true
	resp.Tile = &tile
	if req.Mutating() {
		logger.Always("Tile mutated", "op", req.Op, "x", req.X, "y", req.Y,
			"type", tile.Type.String(), "fire", tile.FireState.String())
	}
	return resp
}

func (s *Server) fail(req protocol.Request, resp protocol.Response, err error) protocol.Response {
	code := errorCode(err)
	if code == protocol.CodeInternal {
		logger.Error("Request failed", "op", req.Op, "id", req.ID, "error", err)
	} else {
		logger.Debug("Request rejected", "op", req.Op, "id", req.ID, "code", code, "error", err)
	}
	resp.OK = false
	resp.Error = &protocol.Error{Code: code, Message: err.Error()}
	return resp
}

// errorCode maps a backend or decode error to its wire code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, protocol.ErrInvalidRequest):
		return protocol.CodeBadRequest
	case errors.Is(err, tilestore.ErrOutOfBounds):
		return protocol.CodeOutOfBounds
	case errors.Is(err, tilestore.ErrWaterTile):
		return protocol.CodeWaterTile
	case errors.Is(err, world.ErrReadOnly):
		return protocol.CodeReadOnly
	}
	return protocol.CodeInternal
}

// statusFor maps a response to its HTTP status.
func statusFor(resp protocol.Response) int {
	if resp.OK || resp.Error == nil {
		return http.StatusOK
	}
	switch resp.Error.Code {
	case protocol.CodeBadRequest:
		return http.StatusBadRequest
	case protocol.CodeOutOfBounds:
		return http.StatusNotFound
	case protocol.CodeWaterTile:
		return http.StatusConflict
	case protocol.CodeReadOnly:
		return http.StatusForbidden
	case protocol.CodeRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
