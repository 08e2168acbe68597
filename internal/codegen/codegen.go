// Package codegen produces the public tracking codes handed to citizens when
// they submit a report.
package codegen

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	DefaultPrefix = "QA"
	alphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffixLen     = 3
)

// Generator builds codes of the form PREFIX-DDDDDD-XXX: the last six digits
// of the millisecond clock followed by three random base-36 characters.
type Generator struct {
	prefix string
	now    func() time.Time
	random io.Reader
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithRandom(r io.Reader) Option {
	return func(g *Generator) { g.random = r }
}

func New(prefix string, opts ...Option) *Generator {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	g := &Generator{
		prefix: prefix,
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Prefix() string { return g.prefix }

// Generate returns a fresh code. Uniqueness is not guaranteed here; the
// reports table carries a unique index and callers retry on conflict.
func (g *Generator) Generate() (string, error) {
	millis := g.now().UnixMilli() % 1_000_000
	suffix, err := g.suffix()
	if err != nil {
		return "", fmt.Errorf("failed to generate code suffix: %w", err)
	}
	return fmt.Sprintf("%s-%06d-%s", g.prefix, millis, suffix), nil
}

func (g *Generator) suffix() (string, error) {
	out := make([]byte, 0, suffixLen)
	buf := make([]byte, 8)
	for len(out) < suffixLen {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			// 252 is the largest multiple of 36 below 256; rejecting the rest keeps the draw uniform.
			if b >= 252 {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == suffixLen {
				break
			}
		}
	}
	return string(out), nil
}
