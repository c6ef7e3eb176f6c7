package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/googlebooks"
	"bookshelf/internal/store"
)

func main() {
	var (
		reset = flag.Bool("reset", false, "Clear the stored book list before seeding")
		demo  = flag.Int("demo", 0, "Number of generated user books to add after the remote fetch")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kv, err := store.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer kv.Close()

	client := googlebooks.NewClient(googlebooks.Options{
		BaseURL:   cfg.VolumesBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RemoteTimeout,
		RPS:       cfg.RemoteRPS,
	})

	total, err := seed(ctx, store.NewRecords(kv), client, cfg, *reset, *demo)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Printf("Total books in store: %d", total)
}

// seed runs the guest-mode resolution against records so the remote list is
// written back, then adds demo generated books.
func seed(ctx context.Context, records *store.Records, client catalog.VolumeSearcher, cfg config.Config, reset bool, demo int) (int, error) {
	books := book.NewService(records)
	if reset {
		if err := books.Reset(ctx); err != nil {
			return 0, fmt.Errorf("reset: %w", err)
		}
		log.Println("Cleared stored books")
	}

	resolver := catalog.NewResolver(records, books, client, catalog.Config{
		SearchTerm: cfg.SearchTerm,
		MaxResults: cfg.MaxResults,
	})
	list, err := resolver.Resolve(ctx, true)
	if err != nil {
		return 0, err
	}
	log.Printf("Resolved %d books for term=%q", len(list), cfg.SearchTerm)

	for i := 0; i < demo; i++ {
		visibility := book.VisibilityPublic
		if i%3 == 0 {
			visibility = book.VisibilityPrivate
		}
		_, err := books.AddBook(ctx, book.Draft{
			Title:       fmt.Sprintf("Book Title %d - %s", i+1, randomWord()),
			Author:      "Seed",
			Description: fmt.Sprintf("This is a book about %s.", randomWord()),
			Visibility:  visibility,
		})
		if err != nil {
			return 0, fmt.Errorf("add demo book %d: %w", i+1, err)
		}
	}
	if demo > 0 {
		log.Printf("Added %d demo books", demo)
	}

	stored, _, err := records.LoadBooks(ctx)
	if err != nil {
		return 0, err
	}
	return len(stored), nil
}

func randomWord() string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams",
		"Science", "Nature", "Technology", "History", "Future", "Wisdom",
	}
	return words[rand.Intn(len(words))]
}
