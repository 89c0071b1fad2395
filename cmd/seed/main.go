package main

import (
	"context"
	"time"

	catalogRepository "doctorsportal/internal/catalog/repository"
	catalogService "doctorsportal/internal/catalog/service"
	"doctorsportal/pkg/config"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"
)

const JobName = "catalog-seed"

var standardSlots = []string{
	"08.00 AM - 08.30 AM",
	"08.30 AM - 09.00 AM",
	"09.00 AM - 09.30 AM",
	"09.30 AM - 10.00 AM",
	"10.00 AM - 10.30 AM",
	"10.30 AM - 11.00 AM",
	"11.00 AM - 11.30 AM",
	"11.30 AM - 12.00 PM",
	"01.00 PM - 01.30 PM",
	"01.30 PM - 02.00 PM",
	"02.00 PM - 02.30 PM",
	"02.30 PM - 03.00 PM",
	"03.00 PM - 03.30 PM",
	"03.30 PM - 04.00 PM",
	"04.00 PM - 04.30 PM",
	"04.30 PM - 05.00 PM",
}

var defaultCatalog = []model.Service{
	{Name: "Teeth Orthodontics", Slots: standardSlots, Price: 35},
	{Name: "Cosmetic Dentistry", Slots: standardSlots, Price: 40},
	{Name: "Teeth Cleaning", Slots: standardSlots, Price: 25},
	{Name: "Cavity Protection", Slots: standardSlots, Price: 30},
	{Name: "Pediatric Dental", Slots: standardSlots, Price: 30},
	{Name: "Oral Surgery", Slots: standardSlots, Price: 60},
}

type catalogCounter interface {
	Count(ctx context.Context) (int64, error)
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	repo := catalogRepository.NewMongoServiceRepository(cfg)
	catalog := catalogService.NewCatalogService(repo, cfg.Log)

	inserted, err := seedCatalog(ctx, repo, catalog, defaultCatalog, cfg.Log)
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Catalog seed failed", "error", err)
	}
	cfg.Log.Info("Catalog seed finished", "inserted", inserted)
}

// seedCatalog inserts defaults only into an empty catalog, so reruns never
// overwrite admin edits.
func seedCatalog(ctx context.Context, counter catalogCounter, catalog catalogService.CatalogService, defaults []model.Service, log *logger.Logger) (int, error) {
	count, err := counter.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Info("Catalog already populated, skipping seed", "services", count)
		return 0, nil
	}

	inserted := 0
	for _, svc := range defaults {
		svc := svc.Clone()
		if err := catalog.Create(ctx, &svc); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
