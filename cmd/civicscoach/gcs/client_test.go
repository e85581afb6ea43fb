// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gcs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ============================================================================
// NewClient Tests
// ============================================================================

func TestNewClient_NonExistentSAKeyPath(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, "test-project", "test-bucket", "/nonexistent/path/to/key.json")
	if err == nil {
		t.Fatal("NewClient with non-existent SA key should return error")
	}
	if !strings.Contains(err.Error(), "service account key not found") {
		t.Errorf("Error should mention SA key not found, got: %v", err)
	}
	if !strings.Contains(err.Error(), "/nonexistent/path/to/key.json") {
		t.Errorf("Error should contain the path, got: %v", err)
	}
}

func TestNewClient_EmptyPath(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, "test-project", "test-bucket", "")
	if err == nil {
		t.Fatal("NewClient with empty SA key path should return error")
	}
}

func TestNewClient_InvalidCredentialsFile(t *testing.T) {
	ctx := context.Background()

	// Create a temporary file with invalid JSON
	tmpDir := t.TempDir()
	invalidKeyPath := filepath.Join(tmpDir, "invalid_key.json")
	err := os.WriteFile(invalidKeyPath, []byte("not valid json"), 0644)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	_, err = NewClient(ctx, "test-project", "test-bucket", invalidKeyPath)
	if err == nil {
		t.Fatal("NewClient with invalid credentials file should return error")
	}
	if !strings.Contains(err.Error(), "failed to create GCS storage client") {
		t.Errorf("Error should mention failed to create client, got: %v", err)
	}
}

// ============================================================================
// UploadFile Tests (error paths that don't require GCS connection)
// ============================================================================

func TestClient_UploadFile_NonExistentLocalFile(t *testing.T) {
	// Create a client struct directly without a real storage client.
	// The local file open fails before any GCS operation.
	client := &Client{
		storageClient: nil,
		ProjectId:     "test-project",
		BucketName:    "test-bucket",
	}

	ctx := context.Background()
	err := client.UploadFile(ctx, "/nonexistent/file/path.txt", "corpus/path.txt")
	if err == nil {
		t.Fatal("UploadFile with non-existent local file should return error")
	}
	if !strings.Contains(err.Error(), "failed to open the local file") {
		t.Errorf("Error should mention failed to open file, got: %v", err)
	}
}

func TestClient_UploadFile_EmptyPath(t *testing.T) {
	client := &Client{
		storageClient: nil,
		ProjectId:     "test-project",
		BucketName:    "test-bucket",
	}

	ctx := context.Background()
	err := client.UploadFile(ctx, "", "corpus/path.txt")
	if err == nil {
		t.Fatal("UploadFile with empty local path should return error")
	}
}

// ============================================================================
// UploadDir Tests (error paths)
// ============================================================================

func TestClient_UploadDir_NonExistentDirectory(t *testing.T) {
	client := &Client{
		storageClient: nil,
		ProjectId:     "test-project",
		BucketName:    "test-bucket",
	}

	ctx := context.Background()
	err := client.UploadDir(ctx, "/nonexistent/directory/path", "corpus")
	if err == nil {
		t.Fatal("UploadDir with non-existent directory should return error")
	}
}

// ============================================================================
// Client Fields Tests
// ============================================================================

func TestClient_Fields(t *testing.T) {
	client := &Client{
		storageClient: nil,
		ProjectId:     "civics-project",
		BucketName:    "civics-corpus",
	}

	if client.ProjectId != "civics-project" {
		t.Errorf("ProjectId = %q, want %q", client.ProjectId, "civics-project")
	}
	if client.BucketName != "civics-corpus" {
		t.Errorf("BucketName = %q, want %q", client.BucketName, "civics-corpus")
	}
}

// ============================================================================
// Context Handling Tests
// ============================================================================

func TestNewClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Even with canceled context, the SA key check happens first
	_, err := NewClient(ctx, "test-project", "test-bucket", "/nonexistent/key.json")
	if err == nil {
		t.Fatal("Should still return error for non-existent key")
	}
	if !strings.Contains(err.Error(), "service account key not found") {
		t.Errorf("Expected SA key error, got: %v", err)
	}
}

// ============================================================================
// Integration Tests (require real GCS credentials)
// These tests are skipped by default but document how to test with real GCS
// ============================================================================

func integrationClient(t *testing.T) *Client {
	t.Helper()

	keyPath := os.Getenv("GCS_TEST_SA_KEY_PATH")
	projectID := os.Getenv("GCS_TEST_PROJECT_ID")
	bucketName := os.Getenv("GCS_TEST_BUCKET_NAME")

	if keyPath == "" || projectID == "" || bucketName == "" {
		t.Skip("Skipping integration test: GCS_TEST_SA_KEY_PATH, GCS_TEST_PROJECT_ID, and GCS_TEST_BUCKET_NAME not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, projectID, bucketName, keyPath)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestClient_UploadFile_Integration(t *testing.T) {
	client := integrationClient(t)
	ctx := context.Background()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "article368.txt")
	err := os.WriteFile(testFile, []byte("Power of Parliament to amend the Constitution."), 0644)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	err = client.UploadFile(ctx, testFile, "test/integration_upload.txt")
	if err != nil {
		t.Errorf("UploadFile failed: %v", err)
	}
}

func TestClient_DownloadObject_Integration(t *testing.T) {
	client := integrationClient(t)
	ctx := context.Background()

	// Upload first so the object exists.
	tmpDir := t.TempDir()
	srcFile := filepath.Join(tmpDir, "src.txt")
	if err := os.WriteFile(srcFile, []byte("download roundtrip content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := client.UploadFile(ctx, srcFile, "test/integration_download.txt"); err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}

	destFile := filepath.Join(tmpDir, "nested", "dest.txt")
	if err := client.DownloadObject(ctx, "test/integration_download.txt", destFile); err != nil {
		t.Fatalf("DownloadObject failed: %v", err)
	}

	data, err := os.ReadFile(destFile)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "download roundtrip content" {
		t.Errorf("Downloaded content = %q, want %q", string(data), "download roundtrip content")
	}
}

func TestClient_ListPrefix_Integration(t *testing.T) {
	client := integrationClient(t)
	ctx := context.Background()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "list_me.txt")
	if err := os.WriteFile(testFile, []byte("listable"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := client.UploadFile(ctx, testFile, "test/list/list_me.txt"); err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}

	names, err := client.ListPrefix(ctx, "test/list/")
	if err != nil {
		t.Fatalf("ListPrefix failed: %v", err)
	}

	found := false
	for _, name := range names {
		if name == "test/list/list_me.txt" {
			found = true
		}
	}
	if !found {
		t.Errorf("ListPrefix did not return the uploaded object, got: %v", names)
	}
}
