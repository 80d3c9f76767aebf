package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"relief/pkg/types"
)

type InventoryCreator interface {
	Create(ctx context.Context, item *types.InventoryItem) error
}

// SeedFakeInventory stocks every seeded center with every seeded product type at a
// random quantity. Existing rows are left untouched.
func SeedFakeInventory(ctx context.Context, repo InventoryCreator, maxQuantity int) error {
	if maxQuantity <= 0 {
		fmt.Println("Skipping fake inventory seed because max quantity <= 0")
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	created, skipped := 0, 0
	for _, center := range Centers {
		for _, pt := range ProductTypes {
			item := &types.InventoryItem{
				DistributionCenterID: center.ID,
				ProductTypeID:        pt.ID,
				Quantity:             rng.Intn(maxQuantity + 1),
			}

			err := repo.Create(ctx, item)
			if types.KindOf(err) == types.KindValidation {
				skipped++
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to create inventory for %s at %s: %w", pt.Name, center.Name, err)
			}
			created++
		}
	}

	fmt.Printf("Fake inventory seeded: %d created, %d already present\n", created, skipped)
	return nil
}
