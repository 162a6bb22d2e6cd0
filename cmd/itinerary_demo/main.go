package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"wayfarer/internal/ai"
	"wayfarer/internal/config"
	"wayfarer/internal/infra"
	"wayfarer/internal/maps"
	"wayfarer/internal/modules/itinerary"
	"wayfarer/internal/types"
)

func main() {
	city := flag.String("city", "Taipei", "destination city")
	lat := flag.Float64("lat", 25.0330, "center latitude")
	lng := flag.Float64("lng", 121.5654, "center longitude")
	days := flag.Int("days", 2, "trip length in days")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := infra.NewLogger(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var llm itinerary.Completer
	if cfg.AI.Provider == "gemini" {
		p, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model, cfg.AI.Temperature)
		if err != nil {
			log.Fatalf("Failed to initialize AI provider: %v", err)
		}
		defer p.Close()
		llm = p
	} else {
		llm = ai.NewOpenAIProvider("groq", cfg.AI.GroqKey, cfg.AI.GroqBaseURL, cfg.AI.Model, cfg.AI.Temperature)
	}

	places, err := maps.NewPlacesService(ctx, cfg.Places.APIKey)
	if err != nil {
		log.Fatalf("places: %v", err)
	}
	defer places.Close()
	balancer := itinerary.NewBalancer(places, itinerary.BalancerConfig{}, logger)
	svc := itinerary.NewService(balancer, llm, cfg.AI.Model, 0, logger)

	params := itinerary.TripParameters{
		City:            *city,
		Center:          types.Point{Lat: *lat, Lng: *lng},
		Days:            *days,
		Interests:       []string{"museums", "night markets"},
		FoodPreferences: []string{"noodles"},
	}
	fmt.Printf("Generating %d-day itinerary for %s (pools start empty, all places come from backfill)\n", *days, *city)

	text, err := svc.Generate(ctx, params, nil, nil, nil)
	if err != nil {
		log.Fatalf("Error generating itinerary: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		log.Fatalf("Generated text is not JSON: %v", err)
	}
	flat, err := itinerary.Flatten(doc)
	if err != nil {
		log.Fatalf("Flatten: %v", err)
	}
	for _, p := range flat.Scheduled {
		fmt.Printf("Day %d %-9s %5s-%-5s %s (%s)\n", p.Day, p.Slot, p.StartTime, p.EndTime, p.Name, p.Type)
	}
	fmt.Printf("Unused: %d\n", len(flat.Unused))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(doc)
}
