package codegen

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service-backend/internal/errs"
)

func never(context.Context, string) (bool, error) { return false, nil }

func TestGenerate_Format(t *testing.T) {
	g := New()

	testCases := []struct {
		format  Format
		pattern string
	}{
		{OrderCode, `^ORD[A-Z0-9]{8}$`},
		{CustomerCode, `^CUS[A-Z0-9]{6}$`},
		{EmployeeCode, `^EMP[A-Z0-9]{6}$`},
	}

	for _, tc := range testCases {
		t.Run(tc.format.Prefix, func(t *testing.T) {
			code, err := g.Generate(context.Background(), tc.format, never)
			require.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(tc.pattern), code)
		})
	}
}

func TestGenerate_DeterministicSource(t *testing.T) {
	g := New(WithRandom(bytes.NewReader(make([]byte, 64))))

	code, err := g.Generate(context.Background(), OrderCode, never)
	require.NoError(t, err)
	assert.Equal(t, "ORDAAAAAAAA", code)
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	g := New()
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return calls <= 3, nil
	}

	var observed int
	g.observe = func(_ context.Context, _ string, attempts int, ok bool) {
		observed = attempts
		assert.True(t, ok)
	}

	code, err := g.Generate(context.Background(), CustomerCode, exists)
	require.NoError(t, err)
	assert.Len(t, code, 9)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, observed)
}

func TestGenerate_Exhausted(t *testing.T) {
	g := New()
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	code, err := g.Generate(context.Background(), OrderCode, exists)
	assert.Empty(t, code)
	assert.ErrorIs(t, err, errs.ErrGenerationExhausted)
	assert.Equal(t, MaxAttempts, calls)
}

func TestGenerate_ExistsErrorPropagates(t *testing.T) {
	g := New()
	boom := errors.New("db down")
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return false, boom
	}

	_, err := g.Generate(context.Background(), EmployeeCode, exists)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestGenerate_RandomSourceError(t *testing.T) {
	g := New(WithRandom(bytes.NewReader(nil)))

	_, err := g.Generate(context.Background(), OrderCode, never)
	assert.Error(t, err)
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Generate(ctx, OrderCode, never)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_ConcurrentCallersGetDistinctCodes(t *testing.T) {
	g := New()

	var mu sync.Mutex
	taken := make(map[string]bool)
	reserve := func(_ context.Context, code string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if taken[code] {
			return true, nil
		}
		taken[code] = true
		return false, nil
	}

	const workers = 64
	codes := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, err := g.Generate(context.Background(), OrderCode, reserve)
			assert.NoError(t, err)
			codes[i] = code
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, workers)
	for _, c := range codes {
		seen[c] = struct{}{}
	}
	assert.Len(t, seen, workers)
}
