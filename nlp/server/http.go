package server

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/oarkflow/xid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/time/rate"

	"github.com/oarkflow/coref/nlp/config"
	"github.com/oarkflow/coref/nlp/coref"
	"github.com/oarkflow/coref/nlp/document"
	"github.com/oarkflow/coref/nlp/export"
	"github.com/oarkflow/coref/nlp/metrics"
)

const msgpackMIME = "application/msgpack"

type state struct {
	pipeline *coref.Pipeline
	workers  int
}

// Server exposes the resolver over HTTP. The active pipeline can be swapped
// with Reload while requests are in flight.
type Server struct {
	app     *fiber.App
	addr    string
	logger  *slog.Logger
	metrics *metrics.Collector
	current atomic.Pointer[state]
}

// New builds the server from cfg. Metrics are registered on reg.
func New(cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	collector, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}
	s := &Server{
		addr:    cfg.Server.Address,
		logger:  logger,
		metrics: collector,
	}
	if err := s.Reload(cfg); err != nil {
		return nil, err
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "corefd",
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))
	s.app.Use(s.accessLog)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := s.app.Group("/v1")
	if cfg.Server.RateLimit > 0 {
		v1.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), max(cfg.Server.Burst, 1))))
	}
	v1.Get("/sieves", s.sieves)
	v1.Post("/resolve", s.resolve)
	v1.Post("/resolve/batch", s.resolveBatch)
	return s, nil
}

// Reload rebuilds the pipeline from cfg. On error the running pipeline is
// kept.
func (s *Server) Reload(cfg *config.Config) error {
	sieves, err := cfg.Sieves()
	if err != nil {
		return err
	}
	p := coref.NewPipeline(sieves, coref.WithLogger(s.logger), coref.WithObserver(s.metrics))
	s.current.Store(&state{pipeline: p, workers: cfg.Pipeline.Workers})
	s.logger.Info("Pipeline configured", slog.Any("sieves", p.SieveNames()))
	return nil
}

func (s *Server) App() *fiber.App { return s.app }

// Listen serves until ctx is done, then drains connections.
func (s *Server) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting coref server", slog.String("addr", s.addr))
		errCh <- s.app.Listen(s.addr)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("Draining connections and shutting down")
	if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) sieves(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"available": coref.SieveNames(),
		"active":    s.current.Load().pipeline.SieveNames(),
	})
}

func (s *Server) resolve(c *fiber.Ctx) error {
	docs, err := document.Decode(c.Body())
	if err != nil {
		return err
	}
	if len(docs) != 1 {
		return fiber.NewError(fiber.StatusBadRequest, "expected a single document, use /v1/resolve/batch")
	}
	doc := docs[0]
	if doc.ID == "" {
		doc.ID = coref.NewDocumentID()
	}
	res, err := s.current.Load().pipeline.Resolve(c.UserContext(), doc.Mentions)
	if err != nil {
		return err
	}
	return respond(c, export.FromResult(doc.ID, res, c.QueryBool("chains")))
}

func (s *Server) resolveBatch(c *fiber.Ctx) error {
	docs, err := document.Decode(c.Body())
	if err != nil {
		return err
	}
	st := s.current.Load()
	results, err := coref.ResolveAll(c.UserContext(), st.pipeline, docs, st.workers)
	if err != nil {
		return err
	}
	chainsOnly := c.QueryBool("chains")
	out := make([]*export.Annotation, len(results))
	for i, r := range results {
		out[i] = export.FromResult(r.ID, r.Result, chainsOnly)
	}
	return respond(c, fiber.Map{"documents": out})
}

func respond(c *fiber.Ctx, v any) error {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if format == export.MsgPack || c.Get(fiber.HeaderAccept) == msgpackMIME {
		b, err := msgpack.Marshal(v)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, msgpackMIME)
		return c.Send(b)
	}
	return c.JSON(v)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, document.ErrInvalidDocument),
		errors.Is(err, coref.ErrNilMention),
		errors.Is(err, coref.ErrDuplicateMention):
		code = fiber.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = fiber.StatusServiceUnavailable
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed",
			slog.String("path", c.Path()),
			slog.Any("request_id", c.Locals("requestid")),
			slog.String("err", err.Error()),
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := s.handleError(c, err); herr != nil {
			return herr
		}
	}
	s.logger.Info("request",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Int("status", c.Response().StatusCode()),
		slog.Duration("latency", time.Since(start)),
		slog.Any("request_id", c.Locals("requestid")),
	)
	return nil
}

func rateLimit(lim *rate.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !lim.Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}
