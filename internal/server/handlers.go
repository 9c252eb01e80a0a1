package server

import (
	"net/http"

	apperrors "ihint/internal/errors"

	"github.com/gin-gonic/gin"
)

type askRequest struct {
	Question string `form:"question" json:"question"`
}

type fbfsRequest struct {
	FishBigger  string `form:"fish_bigger" json:"fish_bigger"`
	FishSmaller string `form:"fish_smaller" json:"fish_smaller"`
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := s.chat.Ask(c.Request.Context(), req.Question)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (s *Server) handleFBFS(c *gin.Context) {
	var req fbfsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := s.fbfs.Generate(c.Request.Context(), req.FishBigger, req.FishSmaller)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (s *Server) fail(c *gin.Context, err error) {
	requestLogger(c).Error("%s failed: %v", c.Request.URL.Path, err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// statusFor maps capability errors onto HTTP status codes
func statusFor(err error) int {
	if apperrors.IsProvider(err) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
