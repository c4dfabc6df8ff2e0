package provider_test

import (
	"errors"
	"fmt"
	"testing"

	"anoa.com/vxrank/internal/modules/verification/provider"
	"anoa.com/vxrank/pkg/apperror"
	"google.golang.org/api/googleapi"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"googleapi 429", &googleapi.Error{Code: 429, Message: "slow down"}, apperror.ErrAIQuotaExceeded},
		{"wrapped googleapi 429", fmt.Errorf("call: %w", &googleapi.Error{Code: 429}), apperror.ErrAIQuotaExceeded},
		{"resource exhausted text", errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), apperror.ErrAIQuotaExceeded},
		{"quota text", errors.New("Quota exceeded for metric"), apperror.ErrAIQuotaExceeded},
		{"server error", &googleapi.Error{Code: 500, Message: "boom"}, apperror.ErrAIUnavailable},
		{"network", errors.New("connection reset"), apperror.ErrAIUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := provider.ClassifyError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if provider.ClassifyError(nil) != nil {
		t.Error("nil should stay nil")
	}
}
