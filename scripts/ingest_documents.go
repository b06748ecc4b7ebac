package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"

	"alfredoptarigan/cv-analyzer/internal/config"
	"alfredoptarigan/cv-analyzer/internal/services"
)

// Loads the reference skill taxonomy and job descriptions into the
// qdrant collection the analyzer retrieves its prompt context from.
func main() {
	log.Println("🚀 Starting reference document ingestion...")

	cfg := config.Load()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	extractor := services.NewTextExtractorService()
	chunker := services.NewTextChunker()

	ctx := context.Background()

	documents := []struct {
		Path      string
		EntryType string
		Name      string
	}{
		{
			Path:      "./reference_docs/skill_taxonomy.txt",
			EntryType: "skill_taxonomy",
			Name:      "Skill taxonomy",
		},
		{
			Path:      "./reference_docs/job_descriptions.pdf",
			EntryType: "job_description",
			Name:      "Reference job descriptions",
		},
	}

	successCount := 0
	failCount := 0

	for _, doc := range documents {
		log.Printf("📄 Processing: %s (%s)", doc.Name, doc.Path)

		if _, err := os.Stat(doc.Path); os.IsNotExist(err) {
			log.Printf("⚠️  File not found, skipping: %s", doc.Path)
			failCount++
			continue
		}

		text, err := extractor.ExtractText(doc.Path)
		if err != nil {
			log.Printf("❌ Failed to extract text: %v", err)
			failCount++
			continue
		}

		chunks := chunker.ChunkText(services.CleanText(text), 1000)
		log.Printf("   Split into %d chunks", len(chunks))

		docID := uuid.New().String()
		chunkFailed := false

		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("❌ Failed to embed chunk %d: %v", i+1, err)
				chunkFailed = true
				continue
			}

			if err := qdrantService.UpsertEntry(ctx, docID, doc.EntryType, chunk, embedding); err != nil {
				log.Printf("❌ Failed to upsert chunk %d: %v", i+1, err)
				chunkFailed = true
			}
		}

		if chunkFailed {
			failCount++
		} else {
			successCount++
			log.Printf("✅ Ingested %s", doc.Name)
		}
	}

	log.Printf("🏁 Ingestion finished: %d succeeded, %d failed", successCount, failCount)
}
