package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"datasync/core/config"
	"datasync/core/database"
	"datasync/core/reconcile"
	"datasync/feature/department/snapshot"
	"datasync/feature/department/store"
)

// debug_diff prints the change set a sync would apply as JSON, without
// prompting or writing anything.
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <file.xml>", os.Args[0])
	}
	path := os.Args[1]

	// Load config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	// Connect to DB
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	ctx := context.Background()

	fmt.Println("=== TABLE ===")
	target, err := store.New(db, cfg.Table, nil).FetchAll(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Rows in %s: %d\n", cfg.Table.Name, target.Len())

	fmt.Println("\n=== FILE ===")
	source, err := snapshot.New(nil).ReadAll(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Rows in %s: %d\n", path, source.Len())

	fmt.Println("\n=== CHANGES ===")
	plan, err := reconcile.ReconcileWithPlan(source, target)
	if err != nil {
		fmt.Println(err)
		return
	}

	out := map[string]any{
		"summary":      plan.Summary,
		"wipes_target": plan.WipesTarget,
		"delete":       describe(plan.Changes.ToDelete.Records()),
		"update":       describe(plan.Changes.ToUpdate.Records()),
		"insert":       describe(plan.Changes.ToInsert.Records()),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))
}

func describe(records []reconcile.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.String())
	}
	return out
}
