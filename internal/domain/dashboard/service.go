package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// Summary returns the combined dashboard data, querying each section concurrently
	Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
}
