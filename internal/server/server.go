package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/jswaro/coup/internal/command"
	"github.com/jswaro/coup/internal/config"
	"github.com/jswaro/coup/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server is the HTTP front of the engine: one websocket endpoint for play
// and a few plain routes for discovery.
type Server struct {
	cfg    config.Config
	reg    *store.Registry
	hub    *Hub
	log    *zap.Logger
	engine *gin.Engine
}

// New wires the routes and the hub.
func New(cfg config.Config, reg *store.Registry, disp *command.Dispatcher, log *zap.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		cfg: cfg,
		reg: reg,
		hub: NewHub(reg, disp, log.Named("hub")),
		log: log,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", s.handleHealth)
	r.GET("/games", s.handleGames)
	r.GET("/qr/:name", s.handleQR)
	r.GET("/ws", s.handleWS)
	s.engine = r
	return s
}

// Run starts the timeout sweep and serves until the listener fails.
func (s *Server) Run() error {
	go s.tick()
	s.log.Info("listening", zap.String("addr", s.cfg.Addr))
	return s.engine.Run(s.cfg.Addr)
}

func (s *Server) tick() {
	t := time.NewTicker(s.cfg.TickInterval)
	defer t.Stop()
	for now := range t.C {
		s.hub.Deliver(s.reg.SweepTimeouts(now))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": s.reg.List()})
}

// handleQR renders a QR code of the join command for a game, for passing
// around a table.
func (s *Server) handleQR(c *gin.Context) {
	name := c.Param("name")
	if _, err := s.reg.Get(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("game '%s' not found", name)})
		return
	}
	png, err := qrcode.Encode(fmt.Sprintf("join %s", name), qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handleWS(c *gin.Context) {
	user := c.Query("user")
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user query parameter is required"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.String("user", user), zap.Error(err))
		return
	}
	s.hub.Serve(user, conn)
}
