package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"souq-kart/internal/shipping"
)

// generateSampleRates writes a shipping-rates JSON document seeded from
// the built-in governorate table, for local development and for
// uploading to the S3 rates bucket.
func main() {
	dataDir := "data/shipping"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	fallback := shipping.DefaultFallback()
	doc := shipping.RatesDocument{
		Rates:   shipping.DefaultRates(),
		Default: &fallback,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal rates document: %v", err)
	}

	filePath := filepath.Join(dataDir, "shipping_rates.json")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d governorates\n", filePath, len(doc.Rates))
	fmt.Println("\nPoint SHIPPING_RATES_FILE at this file, or upload it to the")
	fmt.Println("S3 bucket configured via S3_BUCKET / S3_RATES_KEY.")
}
