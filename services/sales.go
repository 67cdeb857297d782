package services

import (
	"context"
	"time"

	"github.com/lborres/inventrack/core"
	"go.uber.org/zap"
)

// SaleService records product-sale notifications pushed by the payment webhook.
type SaleService struct {
	storage core.SaleStorage
	logger  *zap.Logger
	now     func() time.Time
}

func NewSaleService(storage core.SaleStorage, logger *zap.Logger) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{storage: storage, logger: logger, now: time.Now}
}

// Record stores the payload verbatim. Incomplete payloads never reach the store.
func (s *SaleService) Record(ctx context.Context, input core.SaleInput) (*core.Sale, error) {
	if !input.Complete() {
		return nil, core.ErrMissingFields
	}

	sale := input.Sale()
	sale.ReceivedAt = s.now().UTC()
	if err := s.storage.CreateSale(ctx, sale); err != nil {
		s.logger.Error("failed to store webhook sale",
			zap.String("product_id", sale.ProductID),
			zap.Error(err),
		)
		return nil, core.Translate(err, "sale")
	}

	s.logger.Info("webhook sale recorded",
		zap.String("product_id", sale.ProductID),
		zap.Float64("total_price", sale.TotalPrice),
	)
	return sale, nil
}
