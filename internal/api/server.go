package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/paperdesk/gostock/internal/engine"
	"github.com/paperdesk/gostock/internal/ledger"
	"github.com/paperdesk/gostock/internal/market"
	"github.com/paperdesk/gostock/internal/view"
	"github.com/paperdesk/gostock/pkg/logger"
)

// Config carries the API-level policy knobs.
type Config struct {
	// OpeningBalance is credited to newly created accounts.
	OpeningBalance decimal.Decimal
}

// Server wires the trade engine, ledger reads and the quote board into the
// HTTP surface.
type Server struct {
	cfg       Config
	store     *ledger.Store
	engine    *engine.Engine
	projector *view.Projector
	board     *market.Board
	log       *logrus.Entry
}

func New(cfg Config, store *ledger.Store, eng *engine.Engine, board *market.Board) *Server {
	if cfg.OpeningBalance.IsZero() {
		cfg.OpeningBalance = decimal.NewFromInt(10000)
	}
	return &Server{
		cfg:       cfg,
		store:     store,
		engine:    eng,
		projector: view.NewProjector(store, board),
		board:     board,
		log:       logger.WithComponent("api"),
	}
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", wrap(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	api := r.Group("/api")

	accounts := api.Group("/accounts")
	accounts.POST("/", wrap(s.handleAccountCreate))
	accounts.DELETE("/:accountID", wrap(s.handleAccountDelete))

	api.GET("/account", wrap(s.handleAccountView))

	stocks := api.Group("/stocks")
	stocks.GET("/", wrap(s.handleStocksList))
	stocks.GET("/:symbol", wrap(s.handleStockGet))

	api.POST("/trades", wrap(s.handleTrade))

	favorites := api.Group("/favorites")
	favorites.GET("/", wrap(s.handleFavoritesList))
	favorites.POST("/", wrap(s.handleFavoriteAdd))
	favorites.DELETE("/:symbol", wrap(s.handleFavoriteRemove))

	api.GET("/stream/quotes", wrap(s.handleQuoteStream))

	return r
}
