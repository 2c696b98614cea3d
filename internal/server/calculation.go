package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
)

func (s *Server) CalculateStationary(c *gin.Context) {
	var req calcdomain.StationaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.calcSvc.CalculateStationaryCombustion(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) CalculateMobile(c *gin.Context) {
	var req calcdomain.MobileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.calcSvc.CalculateMobileCombustion(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) CalculateFugitive(c *gin.Context) {
	var req calcdomain.FugitiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.calcSvc.CalculateFugitiveEmissions(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) CalculateScope2(c *gin.Context) {
	var req calcdomain.Scope2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.calcSvc.CalculateScope2Emissions(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) CalculateComprehensive(c *gin.Context) {
	var req calcdomain.ComprehensiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	summary, err := s.calcSvc.CalculateComprehensiveEmissions(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
