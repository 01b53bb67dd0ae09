// Package server exposes the engine over HTTP: a one-shot move endpoint for a
// FEN position and a websocket endpoint for playing a full game. It is caller
// glue around the core; the engine itself knows nothing about transport.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chess-companion/engine"
	"chess-companion/rules"
)

// Server wires the engine to a gin router.
type Server struct {
	eng        *engine.Engine
	log        zerolog.Logger
	router     *gin.Engine
	addr       string
	defaultDif engine.Difficulty
}

// New builds a Server from config. The difficulty name in cfg is validated up
// front so a bad deployment fails at startup, not per request.
func New(eng *engine.Engine, cfg Config, log zerolog.Logger) (*Server, error) {
	dif, err := engine.ParseDifficulty(cfg.DefaultDifficulty)
	if err != nil {
		return nil, err
	}
	s := &Server{
		eng:        eng,
		log:        log,
		addr:       cfg.Addr,
		defaultDif: dif,
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/api/v1/health", s.handleHealth)
	router.POST("/api/v1/move", s.handleMove)
	router.GET("/ws/play", s.handlePlay)
	s.router = router
	return s, nil
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	s.log.Info().Str("addr", s.addr).Msg("listening")
	return s.router.Run(s.addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type moveRequest struct {
	FEN        string `json:"fen" binding:"required"`
	Difficulty string `json:"difficulty"`
}

type moveResponse struct {
	Move       string `json:"move"`
	From       string `json:"from"`
	To         string `json:"to"`
	Promotion  string `json:"promotion,omitempty"`
	Difficulty string `json:"difficulty"`
	Status     string `json:"status"`
}

// handleMove computes one engine move for the side to move in the posted FEN.
func (s *Server) handleMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dif := s.defaultDif
	if req.Difficulty != "" {
		var err error
		if dif, err = engine.ParseDifficulty(req.Difficulty); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	board, err := rules.NewBoardFEN(req.FEN)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if board.Status().IsTerminal() {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "game is over",
			"status": board.Status().String(),
		})
		return
	}

	mv, err := s.eng.SelectMove(dif, board)
	if err != nil {
		s.log.Error().Err(err).Str("fen", req.FEN).Msg("search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	if mv == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no legal moves"})
		return
	}

	if err := board.Push(*mv); err != nil {
		s.log.Error().Err(err).Stringer("move", mv).Msg("selected move rejected")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, moveResponse{
		Move:       mv.String(),
		From:       mv.From.String(),
		To:         mv.To.String(),
		Promotion:  mv.Promotion.String(),
		Difficulty: dif.String(),
		Status:     board.Status().String(),
	})
}