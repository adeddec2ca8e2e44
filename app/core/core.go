package core

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/postpilot-ai/postpilot/app/core/srv"
	"github.com/postpilot-ai/postpilot/app/store/sqlstore"
	"github.com/postpilot-ai/postpilot/pkg/cache"
	"github.com/postpilot-ai/postpilot/pkg/types"
)

type Core struct {
	cfg    CoreConfig
	srv    *srv.Srv
	prompt Prompt

	stores     func() *sqlstore.Provider
	cache      types.Cache
	httpClient *http.Client
	httpEngine *gin.Engine

	metrics *Metrics

	autoReplyEnabled atomic.Bool
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 10},
		metrics:    NewMetrics("postpilot", "core"),
		httpEngine: gin.New(),
		prompt:     cfg.Prompt,
	}

	setupSqlStore(core)
	setupCache(core)

	core.srv = srv.SetupSrvs(srv.ApplyAI(cfg.AI))

	core.loadAutoReplyState()

	return core
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
}

func setupCache(core *Core) {
	if core.cfg.Redis.Addr == "" {
		core.cache = &cache.EmptyCache{}
		return
	}
	core.cache = cache.New(core.cfg.Redis)
}

// loadAutoReplyState restores the persisted process-wide toggle so a restart
// doesn't silently flip replies back on.
func (s *Core) loadAutoReplyState() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	cfg, err := s.Store().CustomConfigStore().Get(ctx, types.CONFIG_AUTOREPLY_ENABLED)
	if err != nil {
		slog.Error("failed to load autoreply state, using configured default",
			slog.String("error", err.Error()))
		s.autoReplyEnabled.Store(s.cfg.RAG.AutoReplyDefault)
		return
	}
	if cfg == nil {
		s.autoReplyEnabled.Store(s.cfg.RAG.AutoReplyDefault)
		return
	}
	s.autoReplyEnabled.Store(cfg.BoolValue())
}

func (s *Core) AutoReplyEnabled() bool {
	return s.autoReplyEnabled.Load()
}

// SetAutoReply flips the toggle and persists it in the same call. The
// in-memory bool is what the chat pipeline reads on every message.
func (s *Core) SetAutoReply(ctx context.Context, enabled bool) error {
	raw, _ := json.Marshal(enabled)
	err := s.Store().CustomConfigStore().Upsert(ctx, types.CustomConfig{
		Name:        types.CONFIG_AUTOREPLY_ENABLED,
		Description: "process-wide automatic reply toggle",
		Category:    types.AUTOREPLY_CATEGORY,
		Value:       raw,
		Status:      types.StatusEnabled,
	})
	if err != nil {
		return err
	}
	s.autoReplyEnabled.Store(enabled)
	return nil
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) Prompt() Prompt {
	return s.prompt
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Cache() types.Cache {
	return s.cache
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

func (s *Core) HttpClient() *http.Client {
	return s.httpClient
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}
