package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lborres/inventrack/core"
)

// Requirement: Record stores complete payloads and refuses incomplete ones
// without touching the store.
func TestSaleService_Record(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		storeErr  error
		wantErr   error
		wantKind  core.Kind
		wantSales int
		wantID    string
	}{
		{
			name:      "records payload with numeric product id",
			payload:   `{"product_id":42,"product_name":"Shampoo","unit_amount":2,"date_processed":"2024-05-01","client_name":"Jo","total_price":18.5}`,
			wantSales: 1,
			wantID:    "42",
		},
		{
			name:      "records payload with string product id",
			payload:   `{"product_id":"sku-42","product_name":"Shampoo","unit_amount":0,"date_processed":"2024-05-01","client_name":"Jo","total_price":0}`,
			wantSales: 1,
			wantID:    "sku-42",
		},
		{
			name:     "refuses payload without client name",
			payload:  `{"product_id":42,"product_name":"Shampoo","unit_amount":2,"date_processed":"2024-05-01","total_price":18.5}`,
			wantErr:  core.ErrMissingFields,
			wantKind: core.KindValidation,
		},
		{
			name:     "refuses payload without total price",
			payload:  `{"product_id":42,"product_name":"Shampoo","unit_amount":2,"date_processed":"2024-05-01","client_name":"Jo"}`,
			wantErr:  core.ErrMissingFields,
			wantKind: core.KindValidation,
		},
		{
			name:     "reports store failure as internal",
			payload:  `{"product_id":42,"product_name":"Shampoo","unit_amount":2,"date_processed":"2024-05-01","client_name":"Jo","total_price":18.5}`,
			storeErr: errors.New("insert failed"),
			wantKind: core.KindInternal,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			store := NewFakeStore()
			store.CreateSaleErr = test.storeErr
			service := NewSaleService(store, nil)
			var input core.SaleInput
			if err := json.Unmarshal([]byte(test.payload), &input); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			// Act
			sale, err := service.Record(context.Background(), input)

			// Assert
			wantFail := test.wantErr != nil || test.storeErr != nil
			if (err != nil) != wantFail {
				t.Fatalf("Record() error = %v, wantErr %v", err, wantFail)
			}
			if test.wantErr != nil && !errors.Is(err, test.wantErr) {
				t.Errorf("Record() error = %v, want %v", err, test.wantErr)
			}
			if wantFail && core.KindOf(err) != test.wantKind {
				t.Errorf("Record() kind = %v, want %v", core.KindOf(err), test.wantKind)
			}
			if got := len(store.Sales()); got != test.wantSales {
				t.Errorf("stored sales = %d, want %d", got, test.wantSales)
			}
			if !wantFail {
				if sale.ProductID != test.wantID {
					t.Errorf("ProductID = %q, want %q", sale.ProductID, test.wantID)
				}
				if sale.ReceivedAt.IsZero() {
					t.Error("ReceivedAt should be set")
				}
			}
		})
	}
}
