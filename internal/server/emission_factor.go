package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
)

func (s *Server) ImportEmissionFactor(c *gin.Context) {
	var req factordomain.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	record, err := s.factorSvc.Import(ctx, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordFactorImport(ctx, record.Source)
	c.JSON(http.StatusCreated, gin.H{"data": record})
}

func (s *Server) ListEmissionFactors(c *gin.Context) {
	var req factordomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.factorSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) GetEmissionFactorByID(c *gin.Context) {
	record, err := s.factorSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

func (s *Server) DeactivateEmissionFactor(c *gin.Context) {
	if err := s.factorSvc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}
