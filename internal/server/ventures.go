package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
)

func (s *Server) handleListVentures(c *gin.Context) {
	ventures, err := s.ventureSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ventures": ventures})
}

func (s *Server) handleCreateVenture(c *gin.Context) {
	var req venturedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	venture, err := s.ventureSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, venture)
}

func (s *Server) handleGetVenture(c *gin.Context) {
	venture, err := s.ventureSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, venture)
}

func (s *Server) handleUpdateVenture(c *gin.Context) {
	var req venturedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	venture, err := s.ventureSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, venture)
}

func (s *Server) handleSaveStripeKeys(c *gin.Context) {
	var req venturedomain.SaveStripeKeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	venture, err := s.ventureSvc.SaveStripeKeys(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, venture)
}

func (s *Server) handleClearStripeKeys(c *gin.Context) {
	venture, err := s.ventureSvc.ClearStripeKeys(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, venture)
}
