package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-action-board/internal/adapter/repository"
	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/external/meet"
	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/actionitem"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/auth"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/board"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/extraction"
	pkgai "github.com/johnquangdev/meeting-action-board/pkg/ai"
	"github.com/johnquangdev/meeting-action-board/pkg/config"
)

// App is the wired set of components shared by the server and the CLI
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      *actionitem.Store
	Controller *board.Controller
	OAuth      *auth.OAuthService   // nil when Google credentials are missing
	Uploader   *storage.MinIOClient // nil when storage is disabled

	closers []func() error
}

// Build wires every component from the configuration and loads the board
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	repo := repository.NewCSVBoardRepository(cfg.Board.Path, logger)
	a.Store = actionitem.NewStore(repo, logger, actionitem.WithMerger(actionitem.Merger{
		Threshold: cfg.Board.DedupSimilarity,
	}))
	if err := a.Store.Load(ctx); err != nil {
		return nil, err
	}
	logger.Info("board loaded", zap.String("path", repo.Path()), zap.Int("items", a.Store.Len()))

	var extractor board.Extractor
	if cfg.AI.APIKey != "" {
		llm := pkgai.NewLLMClient(pkgai.OptionsFromConfig(cfg.AI), logger)
		extractor = extraction.NewEngine(llm, cfg.AI.MaxChunkChars, logger)
		logger.Info("extraction enabled", zap.String("model", llm.Model()))
	} else {
		logger.Warn("AI_API_KEY not set, extraction disabled")
	}

	var source *meet.Client
	if cfg.Google.Enabled() {
		store, err := a.cacheStore(ctx)
		if err != nil {
			return nil, err
		}
		provider := oauth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
		a.OAuth = auth.NewOAuthService(provider, oauth.NewStateManager(store), store, logger)
		source = meet.NewClient(a.OAuth, "", logger)
	} else {
		logger.Warn("Google credentials not set, meeting integration disabled")
	}

	if cfg.Storage.Enabled {
		uploader, err := storage.NewMinIOClient(ctx, cfg.Storage, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.Uploader = uploader
	}

	if source != nil {
		a.Controller = board.NewController(a.Store, extractor, source, logger)
	} else {
		a.Controller = board.NewController(a.Store, extractor, nil, logger)
	}
	return a, nil
}

func (a *App) cacheStore(ctx context.Context) (cache.Store, error) {
	switch a.Config.Cache.Type {
	case "redis":
		rs, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:     a.Config.Cache.RedisAddr,
			Password: a.Config.Cache.RedisPassword,
			DB:       a.Config.Cache.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	default:
		ms := cache.NewMemoryStore(time.Minute)
		a.closers = append(a.closers, ms.Close)
		return ms, nil
	}
}

// Close releases the cache connections
func (a *App) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
