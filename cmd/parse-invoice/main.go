package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/config"
)

func main() {
	var (
		inputPath = flag.String("in", "", "Extracted invoice text file (required)")
		refPath   = flag.String("reference", "", "Reference YAML with categories/brands/tuning (optional)")
		pretty    = flag.Bool("pretty", false, "Indent the JSON output")
	)
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("--in required")
	}

	loader := config.Loader{ReferencePath: *refPath}
	components, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load reference data:", err)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatal("Failed to read input:", err)
	}

	result := components.Parser.ParseDocument(string(data))
	log.Printf("Parsed %d line items from %s", len(result.Items), *inputPath)

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		log.Fatal("Failed to encode result:", err)
	}
}
