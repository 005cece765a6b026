// Package server is the thin HTTP collaborator over the validation core; all
// detection and fix semantics live below it.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Vikram2406/Hackathon-DQ/internal/core"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/applier"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
)

type Server struct {
	Engine *core.Engine
	Logger *zap.Logger
}

func NewServer(engine *core.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Engine: engine, Logger: logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/api/validate", s.Validate)
	r.POST("/api/apply", s.ApplyFixes)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type tableRequest struct {
	Columns []string    `json:"columns" binding:"required"`
	Rows    []model.Row `json:"rows" binding:"required"`
}

type validateRequest struct {
	tableRequest
	Agents []string `json:"agents"`
}

func (s *Server) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ds, err := model.NewDataset(req.Columns, req.Rows)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.Engine.Run(c.Request.Context(), ds, req.Agents)
	if err != nil {
		s.Logger.Error("validation run failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type applyRequest struct {
	tableRequest
	Fixes []model.Fix `json:"fixes" binding:"required"`
}

func (s *Server) ApplyFixes(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ds, err := model.NewDataset(req.Columns, req.Rows)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	next, diff, err := applier.Apply(ds, req.Fixes)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	rows := make([]model.Row, next.RowCount())
	for i := range rows {
		rows[i] = next.Row(i)
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": next.Columns(),
		"rows":    rows,
		"diff":    diff,
	})
}
