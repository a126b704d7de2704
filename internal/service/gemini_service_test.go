package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerStatus(t *testing.T) {
	s := &GeminiService{circuitBreakerMax: 5}

	n, open := s.GetCircuitBreakerStatus()
	assert.Zero(t, n)
	assert.False(t, open)

	// Concurrent failures must all land on the counter (run with -race).
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.consecutiveErrors.Add(1)
		}()
	}
	wg.Wait()

	n, open = s.GetCircuitBreakerStatus()
	assert.Equal(t, 5, n)
	assert.True(t, open)

	s.ResetCircuitBreaker()
	n, open = s.GetCircuitBreakerStatus()
	assert.Zero(t, n)
	assert.False(t, open)
}

func TestGenerateContentRejectsWhenBreakerOpen(t *testing.T) {
	s := &GeminiService{circuitBreakerMax: 1}
	s.consecutiveErrors.Store(1)

	_, err := s.GenerateContent(context.Background(), "gemini-2.5-flash", "hello", 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestGenerateContentInputValidation(t *testing.T) {
	s := &GeminiService{circuitBreakerMax: 5}

	_, err := s.GenerateContent(context.Background(), "", "hello", 0.5)
	assert.Error(t, err)

	_, err = s.GenerateContent(context.Background(), "gemini-2.5-flash", "   ", 0.5)
	assert.Error(t, err)
}
