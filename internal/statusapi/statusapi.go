// Package statusapi provides the optional, read-only ops-visibility HTTP
// endpoint: health, stats, and per-group counts, never touching the
// Forum and never accepting writes.
package statusapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/lornews/lord/internal/config"
	"github.com/lornews/lord/internal/nntp"
	"github.com/lornews/lord/internal/store"
)

// Server is the optional status endpoint. A zero-value Server with Addr
// == "" is simply never started by main.
type Server struct {
	Cfg    *config.GatewayConfig
	Store  *store.Store
	Stats  *nntp.ServerStats
	Addr   string
	Engine *gin.Engine

	tokenHash []byte // bcrypt hash of the configured admin token, empty if auth disabled
	opened    bool
}

// New builds a Server bound to addr. If token is non-empty, requests
// must present it as "Authorization: Bearer <token>"; the token is
// hashed once here with bcrypt and each request is checked against
// that hash.
func New(cfg *config.GatewayConfig, st *store.Store, stats *nntp.ServerStats, addr, token string) (*Server, error) {
	s := &Server{Cfg: cfg, Store: st, Stats: stats, Addr: addr}

	if token != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		s.tokenHash = hash
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	group := router.Group("/")
	if len(s.tokenHash) > 0 {
		group.Use(s.authRequired())
	}
	group.GET("/healthz", s.handleHealthz)
	group.GET("/stats", s.handleStats)

	s.Engine = router
	return s, nil
}

// MarkOpened records that the store has opened successfully, gating
// /healthz.
func (s *Server) MarkOpened() { s.opened = true }

// ListenAndServe starts the status HTTP server and blocks; main runs it
// on its own goroutine.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Engine}
	return srv.ListenAndServe()
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		presented := strings.TrimPrefix(auth, prefix)
		if bcrypt.CompareHashAndPassword(s.tokenHash, []byte(presented)) != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	if !s.opened {
		c.String(http.StatusServiceUnavailable, "not ready")
		return
	}
	c.String(http.StatusOK, "ok")
}

type groupCount struct {
	Group string `json:"group"`
	Count int64  `json:"count"`
}

type statsResponse struct {
	ActiveConnections int64            `json:"active_connections"`
	TotalConnections  int64            `json:"total_connections"`
	UptimeSeconds     float64          `json:"uptime_seconds"`
	Commands          map[string]int64 `json:"commands"`
	Groups            []groupCount     `json:"groups"`
}

func (s *Server) handleStats(c *gin.Context) {
	resp := statsResponse{
		ActiveConnections: s.Stats.GetActiveConnections(),
		TotalConnections:  s.Stats.GetTotalConnections(),
		UptimeSeconds:     s.Stats.GetUptime().Truncate(time.Second).Seconds(),
		Commands:          s.Stats.GetAllCommandCounts(),
	}

	groups, err := s.Cfg.LoadCatalog()
	if err == nil {
		for _, g := range groups {
			gi, gerr := s.Store.OpenGroupIndex(g.Name, store.ReadOnly)
			if gerr != nil {
				continue
			}
			count, _, _, serr := gi.Status()
			gi.Close()
			if serr != nil {
				continue
			}
			resp.Groups = append(resp.Groups, groupCount{Group: g.Name, Count: count})
		}
	}

	c.JSON(http.StatusOK, resp)
}
