package domain

import "context"

// Service is the calculation entry point consumed by the HTTP layer. Every
// method is stateless and fail-fast: one unresolvable or invalid activity
// aborts its whole batch with the specific error, never a partial result.
type Service interface {
	CalculateStationaryCombustion(ctx context.Context, req StationaryRequest) (*StationaryResult, error)
	CalculateMobileCombustion(ctx context.Context, req MobileRequest) (*MobileResult, error)
	CalculateFugitiveEmissions(ctx context.Context, req FugitiveRequest) (*FugitiveResult, error)
	CalculateScope2Emissions(ctx context.Context, req Scope2Request) (*Scope2Result, error)
	CalculateComprehensiveEmissions(ctx context.Context, req ComprehensiveRequest) (*ScopeSummary, error)
}
