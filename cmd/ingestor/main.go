package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopwindow/shopwindow/internal/adapters/memory"
	natsadapter "github.com/shopwindow/shopwindow/internal/adapters/nats"
	"github.com/shopwindow/shopwindow/internal/adapters/postgres"
	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/ports"
	"github.com/shopwindow/shopwindow/internal/pkg/config"
	"github.com/shopwindow/shopwindow/internal/pkg/logging"
	"github.com/shopwindow/shopwindow/internal/pkg/metrics"
)

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

// importer bundles the stores one import run writes through. A dry run
// swaps in the memory store so the file is fully validated without
// touching Postgres.
type importer struct {
	centers ports.CenterRepository
	tenants ports.TenantRepository
	batches ports.ImportBatchRepository
	events  ports.EventPublisher
}

func main() {
	file := flag.String("file", "", "CSV file of denormalized center+tenant rows")
	dryRun := flag.Bool("dry-run", false, "validate against an in-memory store, write nothing")
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: ingestor -file data.csv [-dry-run]")
	}

	logging.Setup("ingestor", os.Getenv("LOG_LEVEL"), "json")

	cfg, err := config.Load("shopwindow-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	var imp importer
	if *dryRun {
		log.Println("dry run: importing into memory store only")
		store := memory.NewStore()
		imp = importer{centers: store.Centers(), tenants: store.Tenants(), batches: store.Batches()}
	} else {
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()

		imp = importer{
			centers: postgres.NewCenterRepo(db),
			tenants: postgres.NewTenantRepo(db),
			batches: postgres.NewImportRepo(db),
		}

		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			log.Printf("nats unavailable, events disabled: %v", err)
		} else {
			imp.events = pub
			defer pub.Close()
		}
	}

	batch, err := imp.run(ctx, *file)
	if err != nil {
		log.Fatalf("import: %v", err)
	}

	log.Printf("import %s: %d records, %d centers, %d tenants, %d failed",
		batch.Status, batch.TotalRecords, batch.CentersCreated, batch.TenantsCreated, batch.FailedRecords)
	if batch.Status == "FAILED" {
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Import run
// ---------------------------------------------------------------------------

func (imp importer) run(ctx context.Context, path string) (*domain.ImportBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	batch := &domain.ImportBatch{
		ImportType: "CSV",
		Status:     "PROCESSING",
		FileName:   path,
	}
	if err := imp.batches.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("create import batch: %w", err)
	}

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols["center_name"]; !ok {
		return nil, fmt.Errorf("%s: missing required column center_name", path)
	}

	// Rows are denormalized, so one center appears once per tenant.
	// Track created centers by normalized name to create each once.
	centerIDs := make(map[string]int64)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			batch.TotalRecords++
			batch.FailedRecords++
			metrics.ImportRows.WithLabelValues("failed").Inc()
			continue
		}
		batch.TotalRecords++

		if err := imp.importRow(ctx, record, cols, centerIDs, batch); err != nil {
			log.Printf("row %d: %v", batch.TotalRecords, err)
			batch.FailedRecords++
			metrics.ImportRows.WithLabelValues("failed").Inc()
		} else {
			metrics.ImportRows.WithLabelValues("ok").Inc()
		}
	}

	switch {
	case batch.TotalRecords == 0 || batch.FailedRecords == batch.TotalRecords:
		batch.Status = "FAILED"
	case batch.FailedRecords > 0:
		batch.Status = "PARTIAL"
	default:
		batch.Status = "COMPLETED"
	}
	metrics.ImportBatches.WithLabelValues(batch.Status).Inc()

	if err := imp.batches.Finish(ctx, batch); err != nil {
		return nil, fmt.Errorf("finish import batch: %w", err)
	}

	if imp.events != nil {
		if err := imp.events.PublishImportCompleted(ctx, batch); err != nil {
			log.Printf("publish import event: %v", err)
		}
	}

	return batch, nil
}

// importRow creates the row's center if unseen, then its tenant.
func (imp importer) importRow(ctx context.Context, record []string, cols map[string]int,
	centerIDs map[string]int64, batch *domain.ImportBatch) error {

	centerName := getField(record, cols, "center_name")
	if centerName == "" {
		return fmt.Errorf("empty center_name")
	}

	key := strings.ToLower(centerName)
	centerID, seen := centerIDs[key]
	if !seen {
		center := &domain.ShoppingCenter{
			Name: centerName,
			Address: domain.Address{
				Street: getField(record, cols, "address_street"),
				City:   getField(record, cols, "address_city"),
				State:  strings.ToUpper(getField(record, cols, "address_state")),
				Zip:    getField(record, cols, "address_zip"),
			},
			CenterType:      parseCenterType(getField(record, cols, "center_type")),
			TotalGLA:        parseFloat(getField(record, cols, "total_gla")),
			Owner:           getField(record, cols, "owner"),
			PropertyManager: getField(record, cols, "property_manager"),
		}
		center.DataQualityScore = center.ComputeQualityScore()

		if err := imp.centers.Create(ctx, center); err != nil {
			return fmt.Errorf("create center %q: %w", centerName, err)
		}
		batch.CentersCreated++
		centerIDs[key] = center.ID
		centerID = center.ID

		if imp.events != nil {
			if err := imp.events.PublishCenterCreated(ctx, center); err != nil {
				log.Printf("publish created event: %v", err)
			}
		}
	}

	tenantName := getField(record, cols, "tenant_name")
	if tenantName == "" {
		// A center-only row is valid: it carries no suite data.
		return nil
	}

	tenant := &domain.Tenant{
		CenterID:       centerID,
		Name:           tenantName,
		Suite:          getField(record, cols, "suite"),
		RetailCategory: getField(record, cols, "retail_category"),
		SquareFootage:  parseFloat(getField(record, cols, "square_footage")),
		BaseRent:       parseFloatPtr(getField(record, cols, "base_rent")),
		LeaseStart:     parseDate(getField(record, cols, "lease_start")),
		LeaseEnd:       parseDate(getField(record, cols, "lease_end")),
		Occupancy:      parseOccupancy(getField(record, cols, "occupancy_status")),
		IsAnchor:       parseBool(getField(record, cols, "is_anchor")),
		Ownership:      parseOwnership(getField(record, cols, "ownership_type")),
	}
	if tenant.SquareFootage < 0 {
		return fmt.Errorf("tenant %q: negative square footage", tenantName)
	}

	if err := imp.tenants.Create(ctx, tenant); err != nil {
		return fmt.Errorf("create tenant %q: %w", tenantName, err)
	}
	batch.TenantsCreated++
	return nil
}

// ---------------------------------------------------------------------------
// CSV helpers
// ---------------------------------------------------------------------------

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func getField(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func parseCenterType(s string) domain.CenterType {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", "_"))
	if domain.ValidCenterType(s) {
		return domain.CenterType(s)
	}
	return domain.CenterTypeOther
}

func parseOccupancy(s string) domain.OccupancyStatus {
	s = strings.ToUpper(s)
	if domain.ValidOccupancyStatus(s) {
		return domain.OccupancyStatus(s)
	}
	return domain.OccupancyUnknown
}

func parseOwnership(s string) domain.OwnershipType {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", "_"))
	if domain.ValidOwnershipType(s) {
		return domain.OwnershipType(s)
	}
	return domain.OwnershipOther
}
