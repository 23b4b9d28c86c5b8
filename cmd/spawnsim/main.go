// Package main provides spawnsim, which generates dungeon floor populations
// from the YAML content tables and optionally persists the resulting holder.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/ruins/internal/config"
	"github.com/cory-johannsen/ruins/internal/game/chara"
	"github.com/cory-johannsen/ruins/internal/game/gamedata"
	"github.com/cory-johannsen/ruins/internal/game/npcgen"
	"github.com/cory-johannsen/ruins/internal/game/rng"
	"github.com/cory-johannsen/ruins/internal/game/status"
	"github.com/cory-johannsen/ruins/internal/observability"
	"github.com/cory-johannsen/ruins/internal/savefile"
	"github.com/cory-johannsen/ruins/internal/storage/postgres"
	"github.com/cory-johannsen/ruins/internal/storage/sqlite"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dungeon := flag.String("dungeon", "", "dungeon kind to populate; empty = generation.dungeon_kind")
	siteN := flag.Uint("site", 0, "dungeon site number")
	floors := flag.Int("floors", 1, "number of consecutive floors to descend through")
	playerTemplate := flag.String("player", "adventurer", "template id used for a fresh player; empty = default chara")
	loadPath := flag.String("load", "", "start from this save file instead of a fresh player")
	savePath := flag.String("save", "", "write the final holder to this save file")
	useDB := flag.Bool("db", false, "store the final holder in PostgreSQL")
	sqlitePath := flag.String("sqlite", "", "store the final holder in this SQLite database")
	label := flag.String("label", "spawnsim", "label for the database save")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	kind := gamedata.DungeonKind(cfg.Generation.DungeonKind)
	if *dungeon != "" {
		kind = gamedata.DungeonKind(*dungeon)
	}
	if *floors < 1 {
		logger.Fatal("floors must be >= 1", zap.Int("floors", *floors))
	}

	// Load content
	contentStart := time.Now()
	templates, err := gamedata.LoadTemplates(cfg.Content.TemplatesDir)
	if err != nil {
		logger.Fatal("loading chara templates", zap.Error(err))
	}
	rules, err := gamedata.LoadRules(cfg.Content.RulesDir)
	if err != nil {
		logger.Fatal("loading dungeon rules", zap.Error(err))
	}
	statuses, err := status.LoadDirectory(cfg.Content.StatusDir)
	if err != nil {
		logger.Fatal("loading status definitions", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("templates", templates.Len()),
		zap.Int("dungeon_kinds", len(rules.Kinds())),
		zap.Int("statuses", len(statuses.All())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	var src rng.Source
	if cfg.Generation.Seed != 0 {
		src = rng.NewSeededSource(cfg.Generation.Seed)
		logger.Info("using seeded random source", zap.Uint64("seed", cfg.Generation.Seed))
	} else {
		src = rng.NewCryptoSource()
	}

	gen := npcgen.NewGenerator(templates, rules, src, observability.Component(logger, "npcgen"))
	holderLogger := observability.Component(logger, "holder")

	var holder *chara.Holder
	if *loadPath != "" {
		holder, err = savefile.ReadFile(*loadPath, holderLogger)
		if err != nil {
			logger.Fatal("loading save file", zap.String("path", *loadPath), zap.Error(err))
		}
		logger.Info("save file loaded", zap.String("path", *loadPath), zap.Int("charas", holder.Len()))
	} else {
		holder = chara.NewHolder(holderLogger)
		player, err := newPlayer(gen, templates, *playerTemplate)
		if err != nil {
			logger.Fatal("creating player", zap.Error(err))
		}
		holder.Add(chara.PlayerID(), player)
	}

	// Persistent characters may carry statuses from a save; refresh their
	// attributes against the loaded definitions.
	for _, id := range holder.IDs() {
		holder.Get(id).Recompute(statuses)
	}

	site := chara.SiteID{Kind: chara.SiteDungeon, N: uint32(*siteN)}
	var mid chara.MapID
	for i := 0; i < *floors; i++ {
		mid = chara.MapID{Site: site, Floor: cfg.Generation.Floor + uint32(i)}
		npcs, err := gen.PopulateMap(mid, kind, cfg.Generation.SpawnCount)
		if err != nil {
			logger.Fatal("populating floor", zap.Stringer("map", mid), zap.Error(err))
		}
		dropped := holder.ReplaceOnMap(npcs)
		logger.Info("entered floor",
			zap.Stringer("map", mid),
			zap.Int("spawned", len(npcs)),
			zap.Int("dropped", len(dropped)),
		)
	}

	if err := printPopulation(os.Stdout, holder, templates); err != nil {
		logger.Fatal("printing population", zap.Error(err))
	}

	if *savePath != "" {
		if err := savefile.WriteFile(*savePath, holder); err != nil {
			logger.Fatal("writing save file", zap.String("path", *savePath), zap.Error(err))
		}
		logger.Info("save file written", zap.String("path", *savePath))
	}

	if *sqlitePath != "" {
		if err := saveToSQLite(context.Background(), *sqlitePath, holder, *label, logger); err != nil {
			logger.Fatal("saving to sqlite", zap.String("path", *sqlitePath), zap.Error(err))
		}
	}

	if *useDB {
		if err := saveToDB(context.Background(), cfg.Database, holder, *label, logger); err != nil {
			logger.Fatal("saving to database", zap.Error(err))
		}
	}

	logger.Info("spawnsim finished",
		zap.Stringer("map", mid),
		zap.Int("charas", holder.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// newPlayer builds the player from the template named id, or a default
// character when id is empty.
func newPlayer(gen *npcgen.Generator, templates *gamedata.Table, id string) (*chara.Chara, error) {
	var player *chara.Chara
	if id == "" {
		player = chara.DefaultChara()
	} else {
		idx, ok := templates.IndexOf(id)
		if !ok {
			return nil, fmt.Errorf("player template %q not found", id)
		}
		c, err := gen.CreateChara(idx)
		if err != nil {
			return nil, err
		}
		player = c
	}
	player.Rel = chara.Ally
	return player, nil
}

func saveToDB(ctx context.Context, dbCfg config.DatabaseConfig, h *chara.Holder, label string, logger *zap.Logger) error {
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()
	if err := pool.RequireSchema(ctx); err != nil {
		return fmt.Errorf("%w (run cmd/migrate first)", err)
	}
	logger.Info("database connected",
		zap.String("host", dbCfg.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	repo := postgres.NewSaveRepository(pool.DB())
	saveID := postgres.NewSaveID()
	if err := repo.Save(ctx, saveID, label, h.Snapshot()); err != nil {
		return err
	}
	logger.Info("holder saved to database",
		zap.Stringer("save_id", saveID),
		zap.String("label", label),
	)
	fmt.Fprintf(os.Stdout, "save_id=%s\n", saveID)
	return nil
}

func saveToSQLite(ctx context.Context, path string, h *chara.Holder, label string, logger *zap.Logger) error {
	store, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	saveID := uuid.New()
	if err := store.Save(ctx, saveID, label, h.Snapshot()); err != nil {
		return err
	}
	logger.Info("holder saved to sqlite",
		zap.String("path", path),
		zap.Stringer("save_id", saveID),
		zap.String("label", label),
	)
	fmt.Fprintf(os.Stdout, "save_id=%s\n", saveID)
	return nil
}
