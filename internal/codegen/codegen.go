package codegen

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"laundry-service-backend/internal/errs"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Bytes at or above this value are rejected so every character is
	// equally likely.
	rejectAbove = 256 - 256%len(alphabet)

	// MaxAttempts bounds the collision loop.
	MaxAttempts = 10
)

// Code shapes used across the service.
var (
	OrderCode    = Format{Prefix: "ORD", Length: 8}
	CustomerCode = Format{Prefix: "CUS", Length: 6}
	EmployeeCode = Format{Prefix: "EMP", Length: 6}
)

// Format is a prefix followed by Length random characters.
type Format struct {
	Prefix string
	Length int
}

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// AttemptObserver is told how many candidates a Generate call consumed.
type AttemptObserver func(ctx context.Context, prefix string, attempts int, ok bool)

// Generator produces collision-checked random codes.
type Generator struct {
	rand    io.Reader
	observe AttemptObserver
}

// Option configures a Generator.
type Option func(*Generator)

// WithRandom replaces the crypto/rand source.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

// WithObserver registers a callback invoked once per Generate call.
func WithObserver(o AttemptObserver) Option {
	return func(g *Generator) {
		g.observe = o
	}
}

// New returns a Generator reading from crypto/rand unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{rand: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns f.Prefix followed by f.Length characters from [A-Z0-9].
// Each candidate costs one exists call. After MaxAttempts taken candidates it
// returns errs.ErrGenerationExhausted. Errors from exists are returned as is.
func (g *Generator) Generate(ctx context.Context, f Format, exists ExistsFunc) (string, error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := g.candidate(f)
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			g.report(ctx, f.Prefix, attempt, true)
			return code, nil
		}
	}

	g.report(ctx, f.Prefix, MaxAttempts, false)
	return "", fmt.Errorf("%s code after %d attempts: %w", f.Prefix, MaxAttempts, errs.ErrGenerationExhausted)
}

func (g *Generator) candidate(f Format) (string, error) {
	buf := make([]byte, 0, len(f.Prefix)+f.Length)
	buf = append(buf, f.Prefix...)

	var b [1]byte
	for len(buf) < cap(buf) {
		if _, err := io.ReadFull(g.rand, b[:]); err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		if int(b[0]) >= rejectAbove {
			continue
		}
		buf = append(buf, alphabet[int(b[0])%len(alphabet)])
	}
	return string(buf), nil
}

func (g *Generator) report(ctx context.Context, prefix string, attempts int, ok bool) {
	if g.observe != nil {
		g.observe(ctx, prefix, attempts, ok)
	}
}
