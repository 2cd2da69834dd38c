package drafts

import (
	"testing"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/pkg/enums"
)

func TestRefreshState(t *testing.T) {
	t.Parallel()

	addressID := uuid.New()
	line := Line{ProductID: uuid.New(), VariantID: uuid.New(), Quantity: 1, UnitPrice: 10000}

	tests := []struct {
		name  string
		draft Draft
		want  enums.DraftState
	}{
		{
			name:  "no address",
			draft: Draft{Lines: []Line{line}, PaymentMethod: enums.PaymentMethodCOD},
			want:  enums.DraftStateBuilding,
		},
		{
			name:  "address without payment",
			draft: Draft{Lines: []Line{line}, AddressID: &addressID},
			want:  enums.DraftStateAddressSelected,
		},
		{
			name:  "address without lines",
			draft: Draft{AddressID: &addressID, PaymentMethod: enums.PaymentMethodCOD},
			want:  enums.DraftStateAddressSelected,
		},
		{
			name:  "complete",
			draft: Draft{Lines: []Line{line}, AddressID: &addressID, PaymentMethod: enums.PaymentMethodCOD},
			want:  enums.DraftStateReadyToSubmit,
		},
		{
			name:  "terminal stays put",
			draft: Draft{State: enums.DraftStateSubmitted},
			want:  enums.DraftStateSubmitted,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			draft := tc.draft
			draft.refreshState()
			if draft.State != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, draft.State)
			}
		})
	}
}
