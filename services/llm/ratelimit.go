// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// rateLimitedClient throttles calls to an inner client with a token
// bucket. Callers that cannot wait for a token get a rate-limited
// backend error, the same shape a remote 429 produces, so retry policy
// upstream does not care which side said no.
type rateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// RateLimited wraps a client with a client-side token bucket of rps
// tokens per second and the given burst size. A non-positive rps or
// burst returns the inner client unchanged.
func RateLimited(inner Client, rps float64, burst int) Client {
	if rps <= 0 || burst <= 0 {
		return inner
	}
	slog.Info("Rate limiting LLM backend", "rps", rps, "burst", burst)
	return &rateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *rateLimitedClient) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &datatypes.BackendError{Err: err, RateLimited: true}
	}
	return nil
}

// Generate implements the Client interface.
func (c *rateLimitedClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return c.inner.Generate(ctx, prompt, params)
}

// Chat implements the Client interface.
func (c *rateLimitedClient) Chat(ctx context.Context, messages []Message, params GenerationParams) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return c.inner.Chat(ctx, messages, params)
}
