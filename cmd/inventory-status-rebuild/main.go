// inventory-status-rebuild recomputes every tracked inventory item's status
// from its current stock and regenerates alerts. Useful after threshold bulk
// edits or manual database fixes.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/inventory-status-rebuild
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/models"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Report status drift without writing anything")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if *dryRun {
		items, err := models.GetInventoryItems(ctx, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list inventory items: %v\n", err)
			os.Exit(1)
		}
		drifted := 0
		for _, item := range items {
			status := models.ClassifyInventoryStatus(item.CurrentStock, item.MinStockLevel, item.MaxStockLevel)
			if status != item.Status {
				drifted++
				fmt.Printf("item %d (%s %d): %s -> %s\n", item.ID, item.ItemType, item.ItemID, item.Status, status)
			}
		}
		fmt.Printf("%d of %d items have drifted status\n", drifted, len(items))
		return
	}

	changed, err := models.RebuildInventoryStatuses(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("rebuilt %d inventory item statuses\n", changed)
}
