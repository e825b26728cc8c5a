package service_test

import (
	"testing"

	"github.com/muralia/muralia/internal/domain"
	"github.com/muralia/muralia/internal/service"
)

func TestCanMutate(t *testing.T) {
	owner := &domain.Account{ID: 1}
	other := &domain.Account{ID: 2}
	image := &domain.Image{ID: "img", OwnerID: 1}

	tests := []struct {
		name    string
		account *domain.Account
		image   *domain.Image
		want    bool
	}{
		{"owner may mutate", owner, image, true},
		{"non-owner may not", other, image, false},
		{"anonymous may not", nil, image, false},
		{"nil image", owner, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := service.CanMutate(tc.account, tc.image); got != tc.want {
				t.Fatalf("CanMutate = %v, want %v", got, tc.want)
			}
		})
	}
}
