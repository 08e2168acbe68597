package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	pgBatchSize     = 50
	pgFlushInterval = 5 * time.Second
)

// pgSink owns the buffer shared by a PGHandler and every handler derived from
// it through WithAttrs or WithGroup.
type pgSink struct {
	db       *gorm.DB
	mu       sync.Mutex
	buffer   []models.SystemLog
	flushNow chan struct{}
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	// flush failures go here; logging them through slog would loop back
	errLog *slog.Logger
}

// PGHandler is an slog.Handler that batches ERROR+ logs into system_logs.
type PGHandler struct {
	sink   *pgSink
	attrs  []slog.Attr
	prefix string
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	return newPGHandler(db, pgFlushInterval)
}

func newPGHandler(db *gorm.DB, interval time.Duration) *PGHandler {
	s := &pgSink{
		db:       db,
		buffer:   make([]models.SystemLog, 0, pgBatchSize),
		flushNow: make(chan struct{}, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		errLog:   slog.New(slog.NewJSONHandler(os.Stderr, nil)),
	}
	go s.flushLoop(interval)
	return &PGHandler{sink: s}
}

func (s *pgSink) flushLoop(interval time.Duration) {
	defer close(s.stopped)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.flush()
		case <-s.flushNow:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *pgSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, pgBatchSize)
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, pgBatchSize).Error; err != nil {
		s.errLog.Error("failed to flush system logs to DB", "error", err.Error(), "count", len(batch))
	}
}

// Stop flushes what is buffered and waits for the flush loop to exit.
func (h *PGHandler) Stop() {
	h.sink.stopOnce.Do(func() { close(h.sink.done) })
	<-h.sink.stopped
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr, prefix string) {
		key := a.Key
		if prefix != "" || a.Value.Kind() == slog.KindGroup {
			addExtra(extra, prefix+key, a.Value)
			return
		}
		switch key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "report_id":
			s := a.Value.String()
			entry.ReportID = &s
		case "code":
			entry.Code = a.Value.String()
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			entry.LatencyMs = latencyMs(a.Value)
		default:
			addExtra(extra, key, a.Value)
		}
	}
	for _, a := range h.attrs {
		apply(a, "")
	}
	record.Attrs(func(a slog.Attr) bool {
		apply(a, h.prefix)
		return true
	})

	entry.Extra = datatypes.JSON("{}")
	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.sink.mu.Lock()
	h.sink.buffer = append(h.sink.buffer, entry)
	full := len(h.sink.buffer) >= pgBatchSize
	h.sink.mu.Unlock()

	if full {
		select {
		case h.sink.flushNow <- struct{}{}:
		default:
		}
	}
	return nil
}

// addExtra stores v under key. Group values are flattened into dotted keys
// the same way WithGroup names them; a group with an empty key is inlined.
func addExtra(extra map[string]interface{}, key string, v slog.Value) {
	v = v.Resolve()
	if v.Kind() != slog.KindGroup {
		extra[key] = attrValue(v)
		return
	}
	for _, member := range v.Group() {
		name := member.Key
		if key != "" {
			name = key + "." + name
		}
		addExtra(extra, name, member.Value)
	}
}

func attrValue(v slog.Value) interface{} {
	v = v.Resolve()
	if err, ok := v.Any().(error); ok {
		return err.Error()
	}
	if v.Kind() == slog.KindDuration {
		return v.Duration().String()
	}
	return v.Any()
}

func latencyMs(v slog.Value) int {
	switch v.Kind() {
	case slog.KindInt64:
		return int(v.Int64())
	case slog.KindFloat64:
		return int(math.Round(v.Float64()))
	case slog.KindDuration:
		return int(v.Duration().Milliseconds())
	}
	return 0
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

// WithGroup keeps grouped attributes in extra under dotted keys.
func (h *PGHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}
