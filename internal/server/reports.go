package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	"github.com/smallbiznis/carbonledger/internal/providers/pdf"
)

type emissionsReportRequest struct {
	Organization    string                          `json:"organization"`
	ReportingPeriod string                          `json:"reporting_period"`
	Inventory       calcdomain.ComprehensiveRequest `json:"inventory"`
}

// ExportEmissionsReportPDF runs a comprehensive calculation over the posted
// inventory and streams the rendered report.
func (s *Server) ExportEmissionsReportPDF(c *gin.Context) {
	var req emissionsReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Organization) == "" {
		AbortWithError(c, calcdomain.NewValidationError("organization", "required", "organization is required"))
		return
	}

	ctx := c.Request.Context()
	summary, err := s.calcSvc.CalculateComprehensiveEmissions(ctx, req.Inventory)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateEmissionsReport(ctx, pdf.ReportData{
		Organization:    strings.TrimSpace(req.Organization),
		ReportingPeriod: strings.TrimSpace(req.ReportingPeriod),
		Summary:         *summary,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payload, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordReportExport(ctx, "pdf")
	c.Header("Content-Disposition", `attachment; filename="emissions-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
