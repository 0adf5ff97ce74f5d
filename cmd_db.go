package main

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := boot(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := database.Migrate(rt.db); err != nil {
				return err
			}
			rt.log.Info("migrations applied")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample products and home-page sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := boot(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := database.Migrate(rt.db); err != nil {
				return err
			}
			index, err := rt.catalogIndex(ctx)
			if err != nil {
				return err
			}
			products := services.NewProductService(repositories.NewGORMProductRepository(rt.db), index, events.Nop{})
			sections := services.NewSectionService(repositories.NewGORMSectionRepository(rt.db), nil, 0)

			n, err := products.Count(ctx)
			if err != nil {
				return err
			}
			if n > 0 && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "catalog already holds %d products, use --force to seed anyway\n", n)
				return nil
			}
			created, err := seed(ctx, products, sections)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records\n", created)
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even when products exist")
	return cmd
}

func newReindexCmd() *cobra.Command {
	var batch int
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Copy every product into the search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := boot(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			index, err := rt.catalogIndex(ctx)
			if err != nil {
				return err
			}
			if index == nil {
				return fmt.Errorf("reindex needs SEARCH_DRIVER=elasticsearch")
			}
			products := services.NewProductService(repositories.NewGORMProductRepository(rt.db), index, events.Nop{})
			n, err := products.Reindex(ctx, batch)
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d products\n", n)
			return err
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 500, "products read per database query")
	return cmd
}

type sampleProduct struct {
	title, category, price, description, image, metadata string
}

var sampleProducts = []sampleProduct{
	{"Cowboy Bebop Complete Series", "ANIME", "59.99", "All 26 sessions remastered on Blu-ray.", "https://cdn.example.com/bebop.jpg", `{"regionCode":"A","episodes":26}`},
	{"Saga #1", "COMICS", "3.99", "A space opera about a family at war with everyone.", "https://cdn.example.com/saga1.jpg", `{"issueNumber":1,"publisher":"Image"}`},
	{"The Legend of Zelda: Tears of the Kingdom", "GAMING", "69.99", "Open-world adventure across Hyrule and the sky islands.", "https://cdn.example.com/totk.jpg", `{"platform":"Switch","edition":"Standard"}`},
	{"Studio Ghibli Tote Bag", "MERCHANDISE", "24.50", "Canvas tote with a Totoro print.", "https://cdn.example.com/tote.jpg", `{"size":"One size","material":"Canvas","brand":"Ghibli Museum"}`},
	{"Evangelion Unit-01 Figure", "COLLECTIBLES", "149.00", "Painted die-cast figure, limited run.", "https://cdn.example.com/eva01.jpg", `{"rarity":"Limited","condition":"New","releaseYear":2021}`},
	{"Catan", "BOARD_GAMES", "45.00", "Trade, build and settle the island.", "https://cdn.example.com/catan.jpg", `{"players":"3-4","playTime":"60-120 min","complexity":"Medium"}`},
	{"Berserk Deluxe Edition Vol. 1", "MANGA", "49.99", "Hardcover collecting the first three volumes.", "https://cdn.example.com/berserk.jpg", `{"volume":1,"author":"Kentaro Miura","publisher":"Dark Horse"}`},
	{"Akira (4K)", "MOVIES", "29.99", "Neo-Tokyo, 2019. Restored in 4K.", "https://cdn.example.com/akira.jpg", `{"duration":124,"director":"Katsuhiro Otomo","releaseYear":1988}`},
	{"Sailor Moon Costume", "COSPLAY", "89.00", "Full uniform with tiara and gloves.", "https://cdn.example.com/sailormoon.jpg", `{"size":"M","character":"Usagi Tsukino","franchise":"Sailor Moon"}`},
}

var sampleSections = []services.SectionInput{
	{Title: ptr("New arrivals"), Description: ptr("Fresh stock across every category."), Image: ptr("https://cdn.example.com/new.jpg"), Link: ptr("/products")},
	{Title: ptr("Manga corner"), Description: ptr("Deluxe editions and box sets."), Image: ptr("https://cdn.example.com/manga.jpg"), Link: ptr("/products?category=MANGA")},
	{Title: ptr("Cosplay season"), Description: ptr("Costumes for the convention circuit."), Image: ptr("https://cdn.example.com/cosplay.jpg"), Link: ptr("/products?category=COSPLAY")},
}

func ptr(s string) *string { return &s }

func seed(ctx context.Context, products *services.ProductService, sections *services.SectionService) (int, error) {
	created := 0
	for _, sp := range sampleProducts {
		_, err := products.Create(ctx, services.ProductInput{
			Title:       sp.title,
			Price:       decimal.RequireFromString(sp.price),
			Image:       sp.image,
			Category:    sp.category,
			Description: sp.description,
			Metadata:    json.RawMessage(sp.metadata),
		})
		if err != nil {
			return created, fmt.Errorf("seed product %q: %w", sp.title, err)
		}
		created++
	}
	for _, in := range sampleSections {
		if _, err := sections.Create(ctx, in); err != nil {
			return created, fmt.Errorf("seed section %q: %w", *in.Title, err)
		}
		created++
	}
	return created, nil
}
