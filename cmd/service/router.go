package service

import (
	"github.com/postpilot-ai/postpilot/app/core"
	"github.com/postpilot-ai/postpilot/app/response"
	"github.com/postpilot-ai/postpilot/cmd/service/handler"
	"github.com/postpilot-ai/postpilot/cmd/service/middleware"
	"github.com/postpilot-ai/postpilot/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func setupHttpRouter(s *handler.HttpSrv) {
	s.Engine.Use(middleware.Cors, middleware.PanicRecovery(), middleware.Observe(s.Core), response.NewResponse())

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	api := s.Engine.Group("/api/v1")
	{
		api.POST("/message", s.HandleMessage)

		rag := api.Group("/rag")
		{
			rag.POST("/ingest", s.IngestPost)
			rag.POST("/backfill", s.Backfill)
			rag.GET("/status", s.RAGStatus)
		}

		api.PUT("/autoreply", s.SetAutoReply)
		api.GET("/autoreply", s.GetAutoReply)
	}
}
