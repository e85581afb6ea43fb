// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakxhamm/CivicsCoach-sub000/cmd/civicscoach/config"
	"github.com/sakxhamm/CivicsCoach-sub000/cmd/civicscoach/gcs"
	"github.com/sakxhamm/CivicsCoach-sub000/pkg/validation"
	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
)

func runCorpusIngest(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		log.Fatalf("Error: at least one file or directory path is required")
	}

	fmt.Println("Scanning for corpus files...")
	files := collectCorpusFiles(args)
	if len(files) == 0 {
		fmt.Println("No valid files found to process.")
		return
	}
	fmt.Printf("Found %d files.\n", len(files))

	if serverIngest {
		ingestViaServer(files)
		return
	}
	ingestLocally(files)
}

// ingestLocally chunks and indexes files straight into the BadgerDB
// evidence store, no orchestrator required.
func ingestLocally(files []string) {
	store, err := openLocalEvidence()
	if err != nil {
		log.Fatalf("Error opening the evidence store: %v", err)
	}
	defer store.Close()

	docs := make([]evidence.Document, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Printf("Could not read file %s: %v", file, err)
			continue
		}
		docs = append(docs, evidence.Document{
			Source:  filepath.Base(file),
			Content: string(content),
		})
	}
	if len(docs) == 0 {
		fmt.Println("No readable files to ingest.")
		return
	}

	ctx := context.Background()
	chunks, err := evidence.IngestAll(ctx, store, docs, evidence.DefaultIngestConcurrency)
	if err != nil {
		log.Fatalf("Error ingesting documents: %v", err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		fmt.Printf("Ingested %d documents (%d chunks).\n", len(docs), chunks)
		return
	}
	fmt.Printf("Ingested %d documents (%d chunks). The store now holds %d snippets.\n",
		len(docs), chunks, total)
}

// ingestViaServer posts each file to a running orchestrator with a
// small worker pool.
func ingestViaServer(files []string) {
	ingestURL := fmt.Sprintf("%s/v1/documents", getServerBaseURL())
	fmt.Printf("Sending %d files to %s with 10 workers...\n", len(files), ingestURL)

	numWorkers := 10
	var wg sync.WaitGroup
	jobs := make(chan string, len(files))

	for w := 1; w <= numWorkers; w++ {
		wg.Add(1)
		go documentWorker(w, &wg, jobs, ingestURL)
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)

	wg.Wait()
	fmt.Println("\nCorpus ingestion complete.")
}

func documentWorker(id int, wg *sync.WaitGroup, jobs <-chan string, ingestURL string) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Minute}

	for file := range jobs {
		fmt.Printf("[Worker %d] Ingesting: %s\n", id, file)
		content, err := os.ReadFile(file)
		if err != nil {
			log.Printf("[Worker %d] Could not read file %s: %v", id, file, err)
			continue
		}

		postBody, err := json.Marshal(map[string]string{
			"source":  filepath.Base(file),
			"content": string(content),
		})
		if err != nil {
			log.Printf("[Worker %d] Could not create request for file %s: %v", id, file, err)
			continue
		}

		resp, err := client.Post(ingestURL, "application/json", bytes.NewBuffer(postBody))
		if err != nil {
			log.Printf("[Worker %d] Failed to send %s to the orchestrator: %v", id, file, err)
			continue
		}

		bodyBytes, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 400 {
			log.Printf("[Worker %d] Orchestrator error for %s, status %d: %s\n", id,
				file, resp.StatusCode, string(bodyBytes))
		} else {
			var ingestResp map[string]interface{}
			if err := json.Unmarshal(bodyBytes, &ingestResp); err == nil {
				log.Printf("[Worker %d] Ingested %s (chunks: %.0f)\n", id,
					ingestResp["source"], ingestResp["chunks"])
			} else {
				log.Printf("[Worker %d] Ingested %s (response unclear)\n", id, file)
			}
		}
		resp.Body.Close()
	}
}

// newCorpusClient builds the GCS client from the corpus config.
func newCorpusClient(ctx context.Context) (*gcs.Client, error) {
	gcsCfg := config.Global.Corpus.GCS
	if gcsCfg.Bucket == "" || gcsCfg.SAKeyPath == "" {
		return nil, fmt.Errorf("corpus sync requires corpus.gcs.bucket and corpus.gcs.sa_key_path in the config")
	}
	return gcs.NewClient(ctx, gcsCfg.ProjectId, gcsCfg.Bucket, gcsCfg.SAKeyPath)
}

func runCorpusPush(cmd *cobra.Command, args []string) {
	localDir := config.Global.Corpus.GetLocalDir()
	if len(args) > 0 {
		localDir = args[0]
	}

	ctx := context.Background()
	client, err := newCorpusClient(ctx)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("Uploading %s to gs://%s/%s...\n", localDir, client.BucketName, gcsPrefix)
	if err := client.UploadDir(ctx, localDir, gcsPrefix); err != nil {
		log.Fatalf("Error uploading the corpus: %v", err)
	}
	fmt.Println("Corpus push complete.")
}

func runCorpusPull(cmd *cobra.Command, args []string) {
	localDir := config.Global.Corpus.GetLocalDir()
	if len(args) > 0 {
		localDir = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	ctx := context.Background()
	client, err := newCorpusClient(ctx)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	prefix := strings.TrimSuffix(gcsPrefix, "/") + "/"
	names, err := client.ListPrefix(ctx, prefix)
	if err != nil {
		log.Fatalf("Error listing the bucket: %v", err)
	}
	if len(names) == 0 {
		fmt.Printf("No objects found under gs://%s/%s\n", client.BucketName, prefix)
		return
	}

	if !force {
		question := fmt.Sprintf("Download %d objects into %s, overwriting existing files?",
			len(names), localDir)
		if !confirm(question) {
			fmt.Println("Pull canceled.")
			return
		}
	}

	downloaded := 0
	for _, name := range names {
		// Object names come from the bucket, not from this machine.
		// Reject anything that could escape the corpus directory.
		rel := strings.TrimPrefix(name, prefix)
		if err := validation.ValidateObjectName(rel); err != nil {
			log.Printf("Skipping unsafe object name %q: %v", name, err)
			continue
		}

		localPath := filepath.Join(localDir, filepath.FromSlash(rel))
		if err := client.DownloadObject(ctx, name, localPath); err != nil {
			log.Printf("Failed to download %s: %v", name, err)
			continue
		}
		downloaded++
	}
	fmt.Printf("Corpus pull complete: %d of %d objects downloaded.\n", downloaded, len(names))
}
