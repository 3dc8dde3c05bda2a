package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ragent-ai/ragent/config"
	"github.com/ragent-ai/ragent/conversation"
	"github.com/ragent-ai/ragent/conversation/inmemory"
	"github.com/ragent-ai/ragent/conversation/redisstore"
	"github.com/ragent-ai/ragent/internal/agent"
	"github.com/ragent-ai/ragent/internal/rag"
	"github.com/ragent-ai/ragent/internal/telemetry"
	openai_provider "github.com/ragent-ai/ragent/provider/openai"
	"github.com/ragent-ai/ragent/tools"
	"github.com/ragent-ai/ragent/tools/arxiv"
	"github.com/ragent-ai/ragent/tools/retrieval"
	"github.com/ragent-ai/ragent/tools/web_search"
)

// BuildAgent wires the full assistant from config. Shared by serve and the
// one-shot ask command.
func BuildAgent(cfg *config.Config, metrics *telemetry.Metrics) (*agent.Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	llm := openai_provider.NewClient(
		cfg.LLM.APIKey, cfg.LLM.BaseURL,
		cfg.LLM.ChatModel, cfg.LLM.EmbeddingModel,
		cfg.LLM.Temperature, cfg.LLM.MaxTokens, cfg.LLM.Timeout,
	)

	length, err := rag.EncodingLen(cfg.RAG.TokenizerEncoding)
	if err != nil {
		log.Printf("tokenizer %q unavailable, using word counts: %v", cfg.RAG.TokenizerEncoding, err)
		length = rag.WordCount
	}
	retriever := rag.NewRetriever(llm, cfg.RAG.CorpusDir, cfg.RAG.TopK,
		rag.NewSplitter(cfg.RAG.ChunkTokens, length))

	belt := []tools.Tool{&retrieval.Tool{Retriever: retriever}}
	if cfg.Tools.WebSearch.Enabled() {
		searcher, err := web_search.NewWebSearcher(
			web_search.Provider(cfg.Tools.WebSearch.Provider),
			cfg.Tools.WebSearch.APIKey(),
		)
		if err != nil {
			return nil, err
		}
		belt = append(belt, &web_search.Tool{Searcher: searcher, MaxResults: cfg.Tools.WebSearch.MaxResults})
	} else {
		log.Printf("web search disabled: no api key configured")
	}
	if cfg.Tools.Arxiv.Enabled {
		belt = append(belt, &arxiv.Tool{Client: &arxiv.Client{
			Endpoint:   cfg.Tools.Arxiv.Endpoint,
			MaxResults: cfg.Tools.Arxiv.MaxResults,
		}})
	}

	var store conversation.Store
	switch cfg.Storage.Store {
	case "redis":
		rs := redisstore.NewStore(cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
		if err := rs.Ping(context.Background()); err != nil {
			return nil, err
		}
		store = rs
	default:
		store = inmemory.NewStore()
	}

	go retriever.Warm(context.Background())

	return agent.New(llm, tools.NewRegistry(belt...), store, agent.Options{
		MaxToolCycles: cfg.Agent.MaxToolCycles,
		GateEnabled:   cfg.Gate.Enabled,
		GateMaxRounds: cfg.Gate.MaxRounds,
	}, metrics), nil
}

// Run starts the HTTP API.
func Run(cfg *config.Config) error {
	metrics := telemetry.New(prometheus.DefaultRegisterer)
	ag, err := BuildAgent(cfg, metrics)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/conversations/:id/messages", func(c echo.Context) error {
		return handleMessage(c, ag)
	})
	api.GET("/conversations/:id", func(c echo.Context) error {
		st, ok, err := ag.Snapshot(c.Request().Context(), c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
		}
		return c.JSON(http.StatusOK, st)
	})

	log.Printf("listening on %s", cfg.Server.Address)
	return e.Start(cfg.Server.Address)
}

// handleMessage streams turn events as NDJSON, one object per line, ending
// with the final event.
func handleMessage(c echo.Context, ag *agent.Agent) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&body); err != nil || body.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "application/x-ndjson")
	resp.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(resp)
	_, err := ag.Run(c.Request().Context(), c.Param("id"), body.Message, func(ev agent.Event) error {
		if err := enc.Encode(ev); err != nil {
			return err
		}
		resp.Flush()
		return nil
	})
	if err != nil {
		// The final event already went out; just log.
		c.Logger().Errorf("turn failed: %v", err)
	}
	return nil
}
