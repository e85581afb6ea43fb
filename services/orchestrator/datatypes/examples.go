// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains request and response types for the example
// catalog endpoints.

package datatypes

import (
	prompting "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// ExampleBucket summarizes one (task, proficiency) cell of the catalog.
type ExampleBucket struct {
	TaskType    string `json:"taskType"`
	Proficiency string `json:"proficiency"`
	Count       int    `json:"count"`
}

// ListExamplesResponse is the body returned by GET /api/v1/examples.
type ListExamplesResponse struct {
	Buckets []ExampleBucket `json:"buckets"`
	Total   int             `json:"total"`
}

// AddExampleRequest is the body of POST /api/v1/examples. The example
// joins the in-memory catalog for its (task, proficiency) bucket.
type AddExampleRequest struct {
	TaskType    string `json:"taskType" validate:"required,tasktype"`
	Proficiency string `json:"proficiency" validate:"required,proficiency"`

	Query          string `json:"query" validate:"required,maxquerybytes"`
	ExpectedOutput string `json:"expectedOutput" validate:"required"`
}

// Validate checks field constraints and enum vocabulary.
func (r *AddExampleRequest) Validate() error {
	return apiValidate.Struct(r)
}

// Example converts the request to a catalog example.
func (r *AddExampleRequest) Example() prompting.Example {
	return prompting.Example{Query: r.Query, ExpectedOutput: r.ExpectedOutput}
}

// AddExampleResponse reports the bucket's size after the addition.
type AddExampleResponse struct {
	TaskType    string `json:"taskType"`
	Proficiency string `json:"proficiency"`
	Count       int    `json:"count"`
}
