package seed

import (
	"context"
	"fmt"

	"relief/pkg/types"
)

type ProductTypeUpserter interface {
	Upsert(ctx context.Context, pt *types.ProductType) error
}

// ProductTypes is the source of truth for the reference product catalogue.
// To add entries: `go run ./cmd/relief seed-entry --kind product-type "Name"`
var ProductTypes = []types.ProductType{
	{ID: "1P6OZFx9BEytXBEtwKcOSfnOyPj38Yxd", Name: "Reusable sanitary pads", Description: "Washable pad kit, one pack per person for six months"},
	{ID: "fvn60ltzFGs9sqyxQhNXF65X6D21rRJE", Name: "Disposable sanitary pads", Description: "Pack of ten"},
	{ID: "XpULNOnv1QOMRJsJJxFPnoVkCwfnrKxm", Name: "Menstrual cup", Description: "Medical grade silicone, includes pouch"},
	{ID: "bvl4ooek77l0Nc7UQEFzLKCbxUuHEcfp", Name: "Bar soap", Description: "100g bar"},
	{ID: "ChstxitvRknpfp0wNHBlz1Yx3niQmSjV", Name: "Underwear", Description: "Cotton, assorted sizes"},
	{ID: "i36ABoSG7uJjSXudsGKpKpdg5lIS3yHi", Name: "Hygiene kit", Description: "Toothbrush, toothpaste, soap and towel"},
}

// SeedProductTypes upserts ProductTypes by ID. Product types are never deleted here
// because requests reference them.
func SeedProductTypes(ctx context.Context, repo ProductTypeUpserter) error {
	fmt.Printf("Seeding %d product types...\n", len(ProductTypes))

	for i := range ProductTypes {
		pt := ProductTypes[i]
		fmt.Printf("  Upserting product type: %s\n", pt.Name)
		if err := repo.Upsert(ctx, &pt); err != nil {
			return fmt.Errorf("failed to upsert product type %s: %w", pt.ID, err)
		}
	}

	return nil
}
