package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	"github.com/smallbiznis/carbonledger/internal/config"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	"github.com/smallbiznis/carbonledger/internal/observability"
	obsmiddleware "github.com/smallbiznis/carbonledger/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/carbonledger/internal/observability/metrics"
	obstracing "github.com/smallbiznis/carbonledger/internal/observability/tracing"
	"github.com/smallbiznis/carbonledger/internal/providers/pdf"
	"github.com/smallbiznis/carbonledger/internal/ratelimit"
	referencedomain "github.com/smallbiznis/carbonledger/internal/reference/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(httpMetrics.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	factorSvc   factordomain.Service
	calcSvc     calcdomain.Service
	refrepo     referencedomain.Repository
	pdfProvider pdf.Provider
	obsMetrics  *obsmetrics.Metrics
	calcLimiter *ratelimit.CalculationLimiter
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	FactorSvc   factordomain.Service
	CalcSvc     calcdomain.Service
	Refrepo     referencedomain.Repository
	PDFProvider pdf.Provider
	ObsMetrics  *obsmetrics.Metrics           `optional:"true"`
	CalcLimiter *ratelimit.CalculationLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		factorSvc:   p.FactorSvc,
		calcSvc:     p.CalcSvc,
		refrepo:     p.Refrepo,
		pdfProvider: p.PDFProvider,
		obsMetrics:  p.ObsMetrics,
		calcLimiter: p.CalcLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/countries", s.ListCountries)
	api.GET("/fuel-types", s.ListFuelTypes)

	// -------- Emission Factors --------
	api.GET("/emission-factors", s.ListEmissionFactors)
	api.POST("/emission-factors", s.ImportEmissionFactor)
	api.GET("/emission-factors/:id", s.GetEmissionFactorByID)
	api.POST("/emission-factors/:id/deactivate", s.DeactivateEmissionFactor)

	// -------- Calculations --------
	calc := api.Group("/calculations", s.CalculationRateLimit())
	calc.POST("/stationary", s.CalculateStationary)
	calc.POST("/mobile", s.CalculateMobile)
	calc.POST("/fugitive", s.CalculateFugitive)
	calc.POST("/scope2", s.CalculateScope2)
	calc.POST("/comprehensive", s.CalculateComprehensive)

	// -------- Reports --------
	api.POST("/reports/emissions/pdf", s.ExportEmissionsReportPDF)
}
