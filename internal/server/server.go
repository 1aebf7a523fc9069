package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ryosk0315/manga-price-tarcker/internal/aggregator"
	"github.com/ryosk0315/manga-price-tarcker/internal/scraper"
	"github.com/ryosk0315/manga-price-tarcker/logger"
	apperr "github.com/ryosk0315/manga-price-tarcker/pkg/errors"
)

// Server exposes the aggregation core over HTTP.
type Server struct {
	agg       *aggregator.Aggregator
	favorites *FavoritesStore
	history   *HistoryStore
	engine    *gin.Engine
	log       *logger.Logger
	now       func() time.Time
}

// New creates a new HTTP server around an aggregator
func New(agg *aggregator.Aggregator) *Server {
	s := &Server{
		agg:       agg,
		favorites: NewFavoritesStore(),
		history:   NewHistoryStore(),
		log:       logger.ForComponent("server"),
		now:       time.Now,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), CORS(), RequestID())
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	engine.GET("/", s.status)
	engine.GET("/search", s.search)

	engine.GET("/favorites", s.listFavorites)
	engine.POST("/favorites", s.addFavorite)
	engine.DELETE("/favorites", s.removeFavorite)

	engine.GET("/history", s.listHistory)
	engine.DELETE("/history", s.clearHistory)

	s.engine = engine
	return s
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// status reports that the service is up
func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Manga Price Tracker API",
		"status":    "running",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// search handles GET /search?title=...&currency=JPY&mock=false
func (s *Server) search(c *gin.Context) {
	title := c.Query("title")
	currency := c.DefaultQuery("currency", aggregator.DefaultCurrency)
	mock, _ := strconv.ParseBool(c.DefaultQuery("mock", "false"))

	result, err := s.agg.Aggregate(c.Request.Context(), title, currency, mock)
	if err != nil {
		if apperr.TypeOf(err) == apperr.ErrorTypeValidation {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing title parameter"})
			return
		}
		s.log.Error().Err(err).Str("title", title).Msg("Search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during search"})
		return
	}

	s.history.Record(result.Title, result.RequestedCurrency, s.now())
	c.JSON(http.StatusOK, result)
}

// listFavorites handles GET /favorites
func (s *Server) listFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorites": s.favorites.List()})
}

// addFavorite handles POST /favorites with an item body
func (s *Server) addFavorite(c *gin.Context) {
	var item scraper.Item
	if err := c.ShouldBindJSON(&item); err != nil || item.Title == "" || item.Store == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and store are required"})
		return
	}
	s.favorites.Add(item, s.now())
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// removeFavorite handles DELETE /favorites?title=...&store=...
func (s *Server) removeFavorite(c *gin.Context) {
	title := c.Query("title")
	store := c.Query("store")
	if title == "" || store == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and store are required"})
		return
	}
	if !s.favorites.Remove(title, store) {
		c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// listHistory handles GET /history
func (s *Server) listHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": s.history.List()})
}

// clearHistory handles DELETE /history
func (s *Server) clearHistory(c *gin.Context) {
	s.history.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
