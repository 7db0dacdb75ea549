package facility

import (
	"context"

	"github.com/google/uuid"
)

// Seed loads the bootstrap directory used until a real facility onboarding
// flow exists.
func Seed(ctx context.Context, store Store) error {
	entries := []Facility{
		{Name: "City General Hospital", Address: "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0", Type: "Hospital"},
		{Name: "Medicare Clinic", Address: "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f", Type: "Clinic"},
		{Name: "HealthCare Insurance Co.", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Type: "Insurance"},
		{Name: "Wellness Medical Center", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Type: "Medical Center"},
		{Name: "National Lab Services", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Type: "Laboratory"},
	}
	for _, f := range entries {
		f.ID = uuid.NewString()
		if err := store.Save(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
