package pdf

import (
	"context"
	"io"

	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
)

// ReportData wraps a scope summary with the presentation fields the
// renderer needs but the summary does not carry.
type ReportData struct {
	Organization    string
	ReportingPeriod string
	Summary         calcdomain.ScopeSummary
}

type Provider interface {
	GenerateEmissionsReport(ctx context.Context, data ReportData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateEmissionsReport(ctx context.Context, data ReportData) (io.Reader, error) {
	return nil, nil
}
