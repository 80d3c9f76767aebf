package seed

import (
	"context"
	"fmt"

	"relief/pkg/types"
)

type CenterUpserter interface {
	Upsert(ctx context.Context, center *types.DistributionCenter) error
}

var Centers = []types.DistributionCenter{
	{
		ID:             "rY9rApX3QpKPmxozBzZBTZocEAqvSfIR",
		Name:           "Kibera Community Hall",
		Location:       "Kibera, Nairobi",
		ContactEmail:   "kibera@relief.example.org",
		ContactPhone:   "+254700100200",
		OperatingHours: "Mon-Fri 09:00-17:00",
	},
	{
		ID:             "gtWTNxqU8PZD1fegcmmpDCfnu9xnx6wa",
		Name:           "Mathare Youth Centre",
		Location:       "Mathare, Nairobi",
		ContactEmail:   "mathare@relief.example.org",
		ContactPhone:   "+254700100300",
		OperatingHours: "Tue-Sat 10:00-16:00",
	},
	{
		ID:             "3nyeREThcMfNj1O89K1kjm5K5AltUAro",
		Name:           "Kisumu Depot",
		Location:       "Kondele, Kisumu",
		ContactEmail:   "kisumu@relief.example.org",
		ContactPhone:   "+254700100400",
		OperatingHours: "Mon-Sat 08:00-18:00",
	},
}

func SeedCenters(ctx context.Context, repo CenterUpserter) error {
	fmt.Printf("Seeding %d distribution centers...\n", len(Centers))

	for i := range Centers {
		center := Centers[i]
		fmt.Printf("  Upserting center: %s\n", center.Name)
		if err := repo.Upsert(ctx, &center); err != nil {
			return fmt.Errorf("failed to upsert center %s: %w", center.ID, err)
		}
	}

	return nil
}
