package marketdata

import (
	"context"

	"github.com/jmanzanog/nasdaq-finance/internal/domain"
)

// Provider answers per-ticker questions about a single stock. Batch
// behaviour (fan-out, result shaping) lives in the application layer.
type Provider interface {
	GetInfo(ctx context.Context, ticker string) (*domain.CompanyInfo, error)
	GetPrice(ctx context.Context, ticker string) (domain.Decimal, error)
	GetTicks(ctx context.Context, ticker string) ([]domain.Tick, error)
}
