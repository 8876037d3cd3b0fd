// Command worldgen generates one world, prints its summary and optionally
// archives it or exports its tiles.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/lawnchairsociety/worldforge/internal/config"
	"github.com/lawnchairsociety/worldforge/internal/database"
	"github.com/lawnchairsociety/worldforge/internal/logger"
	"github.com/lawnchairsociety/worldforge/internal/protocol"
	"github.com/lawnchairsociety/worldforge/internal/world"
)

func main() {
	configFile := flag.String("config", "data/worldforge.yaml", "Path to config YAML file")
	seed := flag.Int64("seed", 0, "World seed (default: from config, or random when zero there too)")
	width := flag.Int("width", 0, "Override world width")
	height := flag.Int("height", 0, "Override world height")
	archive := flag.Bool("archive", false, "Record the world in the archive database")
	tilesOut := flag.String("tiles", "", "Write the tile grid as zstd-compressed JSON to this path")
	asJSON := flag.Bool("json", false, "Print the summary as JSON")
	list := flag.Int("list", 0, "List the newest N archived worlds and exit")
	deleteID := flag.String("delete", "", "Delete an archived world by id and exit")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*configFile)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
	}

	if *list > 0 || *deleteID != "" {
		if err := manageArchive(cfg.Archive.Config, *list, *deleteID); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	switch {
	case *seed != 0:
		cfg.World.Seed = *seed
	case cfg.World.Seed == 0:
		cfg.World.Seed = time.Now().UnixNano()
		logger.Info("World seed selected", "seed", cfg.World.Seed, "random", true)
	}
	if *width > 0 {
		cfg.World.Width = *width
	}
	if *height > 0 {
		cfg.World.Height = *height
	}

	m := world.NewManager(cfg.World)

	if *archive || cfg.Archive.Enabled {
		db, err := database.OpenWithConfig(cfg.Archive.Config)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer db.Close()
		m.SetArchive(db)
	}

	started := time.Now()
	if err := m.Start(); err != nil {
		log.Fatalf("Failed to generate world: %v", err)
	}
	defer m.Close()
	logger.Info("World generated", "elapsed", time.Since(started).Round(time.Millisecond))

	if *tilesOut != "" {
		if err := writeTiles(m, *tilesOut); err != nil {
			log.Fatalf("Failed to write tiles: %v", err)
		}
		logger.Info("Tiles written", "path", *tilesOut)
	}

	summary := m.Summary()
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(protocol.WorldSummary{WorldID: m.WorldID(), Summary: summary}); err != nil {
			log.Fatalf("Failed to encode summary: %v", err)
		}
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "seed\t%d\n", summary.Seed)
	fmt.Fprintf(tw, "size\t%dx%d\n", summary.Width, summary.Height)
	fmt.Fprintf(tw, "sea level\t%.3f\n", summary.SeaLevel)
	fmt.Fprintf(tw, "land / water\t%d / %d\n", summary.LandTiles, summary.WaterTiles)
	fmt.Fprintf(tw, "rivers\t%d (%d tributaries, %d navigable)\n", summary.Rivers, summary.Tributaries, summary.NavigableRivers)
	fmt.Fprintf(tw, "lakes\t%d\n", summary.Lakes)
	fmt.Fprintf(tw, "continents / islands\t%d / %d\n", summary.Continents, summary.Islands)
	fmt.Fprintf(tw, "mountain ranges\t%d\n", summary.MountainRanges)
	fmt.Fprintf(tw, "caves\t%d\n", summary.Caves)
	fmt.Fprintf(tw, "fingerprint\t%s\n", summary.Fingerprint)
	if id := m.WorldID(); id != "" {
		fmt.Fprintf(tw, "world id\t%s\n", id)
	}
	tw.Flush()
}

func writeTiles(m *world.Manager, path string) error {
	tiles, err := m.Tiles()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(zw).Encode(tiles); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

func manageArchive(cfg database.Config, list int, deleteID string) error {
	db, err := database.OpenWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer db.Close()

	if deleteID != "" {
		if err := db.DeleteWorld(deleteID); err != nil {
			return fmt.Errorf("failed to delete world %s: %w", deleteID, err)
		}
		fmt.Printf("Deleted world %s\n", deleteID)
		return nil
	}

	worlds, err := db.ListWorlds(list)
	if err != nil {
		return fmt.Errorf("failed to list worlds: %w", err)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEED\tSIZE\tRIVERS\tLAKES\tCREATED")
	for _, w := range worlds {
		fmt.Fprintf(tw, "%s\t%d\t%dx%d\t%d\t%d\t%s\n",
			w.ID, w.Seed, w.Width, w.Height, w.RiverCount, w.LakeCount, w.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
