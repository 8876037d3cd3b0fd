package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrWorldNotFound  = errors.New("world not found")
	ErrWorldExists    = errors.New("world already archived")
	ErrInvalidWorldID = errors.New("invalid world id")
)

// Landmass kinds stored in the landmasses table.
const (
	KindContinent = "continent"
	KindIsland    = "island"
)

// WorldRecord is the summary row of an archived world.
type WorldRecord struct {
	ID             string    `json:"id"`
	Seed           int64     `json:"seed"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	SeaLevel       float64   `json:"sea_level"`
	HeightmapMode  string    `json:"heightmap_mode"`
	Fingerprint    string    `json:"fingerprint"`
	RiverCount     int       `json:"river_count"`
	LakeCount      int       `json:"lake_count"`
	ContinentCount int       `json:"continent_count"`
	IslandCount    int       `json:"island_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// RiverRecord is one archived river.
type RiverRecord struct {
	RiverID     int     `json:"river_id"`
	ParentID    int     `json:"parent_id"`
	SourceX     int     `json:"source_x"`
	SourceY     int     `json:"source_y"`
	MouthX      int     `json:"mouth_x"`
	MouthY      int     `json:"mouth_y"`
	Length      float64 `json:"length"`
	Width       float64 `json:"width"`
	Depth       float64 `json:"depth"`
	FlowRate    float64 `json:"flow_rate"`
	Navigable   bool    `json:"navigable"`
	Tributaries int     `json:"tributaries"`
	Crossings   int     `json:"crossings"`
}

// LakeRecord is one archived lake.
type LakeRecord struct {
	LakeID    int     `json:"lake_id"`
	CenterX   int     `json:"center_x"`
	CenterY   int     `json:"center_y"`
	Radius    int     `json:"radius"`
	Depth     float64 `json:"depth"`
	Volume    float64 `json:"volume"`
	WaterType string  `json:"water_type"`
	OutflowID int     `json:"outflow_id"`
	Inflow    int     `json:"inflow"`
}

// LandmassRecord is one archived continent or island.
type LandmassRecord struct {
	Kind         string  `json:"kind"`
	LandmassID   int     `json:"landmass_id"`
	IslandType   string  `json:"island_type,omitempty"`
	Area         int     `json:"area"`
	MinX         int     `json:"min_x"`
	MinY         int     `json:"min_y"`
	MaxX         int     `json:"max_x"`
	MaxY         int     `json:"max_y"`
	AvgElevation float64 `json:"avg_elevation"`
	MaxElevation float64 `json:"max_elevation"`
	Temperature  float64 `json:"temperature"`
	Rainfall     float64 `json:"rainfall"`
}

// WorldArchive groups everything RecordWorld writes in one transaction.
type WorldArchive struct {
	World      WorldRecord
	Rivers     []RiverRecord
	Lakes      []LakeRecord
	Landmasses []LandmassRecord
}

const worldColumns = "id, seed, width, height, sea_level, heightmap_mode, fingerprint, " +
	"river_count, lake_count, continent_count, island_count, created_at"

// RecordWorld stores a world and its features. An empty ID is replaced with
// a new UUID and the stored summary is returned.
func (d *Database) RecordWorld(a WorldArchive) (WorldRecord, error) {
	rec := a.World
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if _, err := uuid.Parse(rec.ID); err != nil {
		return WorldRecord{}, fmt.Errorf("%w: %q", ErrInvalidWorldID, rec.ID)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.RiverCount = len(a.Rivers)
	rec.LakeCount = len(a.Lakes)
	rec.ContinentCount, rec.IslandCount = 0, 0
	for _, lm := range a.Landmasses {
		switch lm.Kind {
		case KindContinent:
			rec.ContinentCount++
		case KindIsland:
			rec.IslandCount++
		default:
			return WorldRecord{}, fmt.Errorf("unknown landmass kind %q", lm.Kind)
		}
	}

	tx, err := d.db.Begin()
	if err != nil {
		return WorldRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		d.qb.Build("INSERT INTO worlds ("+worldColumns+") VALUES ("+Placeholders(12)+")"),
		rec.ID, rec.Seed, rec.Width, rec.Height, rec.SeaLevel, rec.HeightmapMode, rec.Fingerprint,
		rec.RiverCount, rec.LakeCount, rec.ContinentCount, rec.IslandCount, rec.CreatedAt,
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return WorldRecord{}, fmt.Errorf("%w: %s", ErrWorldExists, rec.ID)
		}
		return WorldRecord{}, fmt.Errorf("failed to insert world: %w", err)
	}

	riverSQL := d.qb.Build(`INSERT INTO rivers (world_id, river_id, parent_id, source_x, source_y,
		mouth_x, mouth_y, length, width, depth, flow_rate, navigable, tributaries, crossings)
		VALUES (` + Placeholders(14) + `)`)
	for _, r := range a.Rivers {
		if _, err := tx.Exec(riverSQL, rec.ID, r.RiverID, r.ParentID, r.SourceX, r.SourceY,
			r.MouthX, r.MouthY, r.Length, r.Width, r.Depth, r.FlowRate, boolToInt(r.Navigable),
			r.Tributaries, r.Crossings); err != nil {
			return WorldRecord{}, fmt.Errorf("failed to insert river %d: %w", r.RiverID, err)
		}
	}

	lakeSQL := d.qb.Build(`INSERT INTO lakes (world_id, lake_id, center_x, center_y, radius,
		depth, volume, water_type, outflow_id, inflow) VALUES (` + Placeholders(10) + `)`)
	for _, l := range a.Lakes {
		if _, err := tx.Exec(lakeSQL, rec.ID, l.LakeID, l.CenterX, l.CenterY, l.Radius,
			l.Depth, l.Volume, l.WaterType, l.OutflowID, l.Inflow); err != nil {
			return WorldRecord{}, fmt.Errorf("failed to insert lake %d: %w", l.LakeID, err)
		}
	}

	landSQL := d.qb.Build(`INSERT INTO landmasses (world_id, kind, landmass_id, island_type, area,
		min_x, min_y, max_x, max_y, avg_elevation, max_elevation, temperature, rainfall)
		VALUES (` + Placeholders(13) + `)`)
	for _, lm := range a.Landmasses {
		if _, err := tx.Exec(landSQL, rec.ID, lm.Kind, lm.LandmassID, lm.IslandType, lm.Area,
			lm.MinX, lm.MinY, lm.MaxX, lm.MaxY, lm.AvgElevation, lm.MaxElevation,
			lm.Temperature, lm.Rainfall); err != nil {
			return WorldRecord{}, fmt.Errorf("failed to insert %s %d: %w", lm.Kind, lm.LandmassID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return WorldRecord{}, fmt.Errorf("failed to commit world: %w", err)
	}
	return rec, nil
}

// GetWorld returns the summary of one archived world.
func (d *Database) GetWorld(id string) (*WorldRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWorldID, id)
	}
	row := d.db.QueryRow(d.qb.Build("SELECT "+worldColumns+" FROM worlds WHERE id = ?"), id)
	rec, err := scanWorld(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get world: %w", err)
	}
	return rec, nil
}

// FindWorldByFingerprint returns the oldest world with the given fingerprint.
func (d *Database) FindWorldByFingerprint(fingerprint string) (*WorldRecord, error) {
	row := d.db.QueryRow(
		d.qb.Build("SELECT "+worldColumns+" FROM worlds WHERE fingerprint = ? ORDER BY created_at, id LIMIT 1"),
		fingerprint,
	)
	rec, err := scanWorld(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find world: %w", err)
	}
	return rec, nil
}

// FindWorldsBySeed returns every world generated from seed, oldest first.
func (d *Database) FindWorldsBySeed(seed int64) ([]WorldRecord, error) {
	return d.queryWorlds("SELECT "+worldColumns+" FROM worlds WHERE seed = ? ORDER BY created_at, id", seed)
}

// ListWorlds returns up to limit worlds, newest first. limit <= 0 means all.
func (d *Database) ListWorlds(limit int) ([]WorldRecord, error) {
	if limit <= 0 {
		return d.queryWorlds("SELECT " + worldColumns + " FROM worlds ORDER BY created_at DESC, id")
	}
	return d.queryWorlds("SELECT "+worldColumns+" FROM worlds ORDER BY created_at DESC, id LIMIT ?", limit)
}

// DeleteWorld removes a world and, through the foreign keys, its features.
func (d *Database) DeleteWorld(id string) error {
	result, err := d.db.Exec(d.qb.Build("DELETE FROM worlds WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete world: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return ErrWorldNotFound
	}
	return nil
}

// ListRivers returns the rivers of a world in id order.
func (d *Database) ListRivers(worldID string) ([]RiverRecord, error) {
	rows, err := d.db.Query(d.qb.Build(`SELECT river_id, parent_id, source_x, source_y,
		mouth_x, mouth_y, length, width, depth, flow_rate, navigable, tributaries, crossings
		FROM rivers WHERE world_id = ? ORDER BY river_id`), worldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rivers: %w", err)
	}
	defer rows.Close()

	var rivers []RiverRecord
	for rows.Next() {
		var r RiverRecord
		var navigable int
		if err := rows.Scan(&r.RiverID, &r.ParentID, &r.SourceX, &r.SourceY, &r.MouthX, &r.MouthY,
			&r.Length, &r.Width, &r.Depth, &r.FlowRate, &navigable, &r.Tributaries, &r.Crossings); err != nil {
			return nil, fmt.Errorf("failed to scan river: %w", err)
		}
		r.Navigable = navigable != 0
		rivers = append(rivers, r)
	}
	return rivers, rows.Err()
}

// ListLakes returns the lakes of a world in id order.
func (d *Database) ListLakes(worldID string) ([]LakeRecord, error) {
	rows, err := d.db.Query(d.qb.Build(`SELECT lake_id, center_x, center_y, radius, depth,
		volume, water_type, outflow_id, inflow FROM lakes WHERE world_id = ? ORDER BY lake_id`), worldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lakes: %w", err)
	}
	defer rows.Close()

	var lakes []LakeRecord
	for rows.Next() {
		var l LakeRecord
		if err := rows.Scan(&l.LakeID, &l.CenterX, &l.CenterY, &l.Radius, &l.Depth,
			&l.Volume, &l.WaterType, &l.OutflowID, &l.Inflow); err != nil {
			return nil, fmt.Errorf("failed to scan lake: %w", err)
		}
		lakes = append(lakes, l)
	}
	return lakes, rows.Err()
}

// ListLandmasses returns continents then islands, each in id order.
func (d *Database) ListLandmasses(worldID string) ([]LandmassRecord, error) {
	rows, err := d.db.Query(d.qb.Build(`SELECT kind, landmass_id, island_type, area,
		min_x, min_y, max_x, max_y, avg_elevation, max_elevation, temperature, rainfall
		FROM landmasses WHERE world_id = ? ORDER BY kind, landmass_id`), worldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list landmasses: %w", err)
	}
	defer rows.Close()

	var out []LandmassRecord
	for rows.Next() {
		var lm LandmassRecord
		if err := rows.Scan(&lm.Kind, &lm.LandmassID, &lm.IslandType, &lm.Area,
			&lm.MinX, &lm.MinY, &lm.MaxX, &lm.MaxY, &lm.AvgElevation, &lm.MaxElevation,
			&lm.Temperature, &lm.Rainfall); err != nil {
			return nil, fmt.Errorf("failed to scan landmass: %w", err)
		}
		out = append(out, lm)
	}
	return out, rows.Err()
}

func (d *Database) queryWorlds(query string, args ...any) ([]WorldRecord, error) {
	rows, err := d.db.Query(d.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query worlds: %w", err)
	}
	defer rows.Close()

	var worlds []WorldRecord
	for rows.Next() {
		rec, err := scanWorld(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan world: %w", err)
		}
		worlds = append(worlds, *rec)
	}
	return worlds, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorld(row rowScanner) (*WorldRecord, error) {
	var rec WorldRecord
	err := row.Scan(&rec.ID, &rec.Seed, &rec.Width, &rec.Height, &rec.SeaLevel, &rec.HeightmapMode,
		&rec.Fingerprint, &rec.RiverCount, &rec.LakeCount, &rec.ContinentCount, &rec.IslandCount,
		&rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
