package monitor

import (
	"sync"
	"time"

	"github.com/upnetwork-v/webpay-sub001/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxRecords bounds the in-memory buffer; oldest entries are evicted first.
const maxRecords = 50

const userAgent = "webpay-sub001/1.0"

// Monitor records anomalous protocol events for later audit. Fire and
// forget: Record never returns an error, never blocks on the sink, and
// the payment flow must not depend on it.
type Monitor struct {
	mu      sync.Mutex
	records []model.SuspiciousActivityRecord

	client  *resty.Client
	sinkURL string
	origin  string
	log     zerolog.Logger
}

// auditEvent is the JSON body posted to the audit sink.
type auditEvent struct {
	Type      string    `json:"type"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent"`
	URL       string    `json:"url"`
}

// New creates a monitor. An empty sinkURL disables remote forwarding;
// records are still kept in the local buffer.
func New(sinkURL string, timeout time.Duration, origin string, log zerolog.Logger) *Monitor {
	return &Monitor{
		client:  resty.New().SetTimeout(timeout),
		sinkURL: sinkURL,
		origin:  origin,
		log:     log,
	}
}

// Record appends a timestamped record and forwards it to the audit sink
// in the background. Forwarding failures are swallowed.
func (m *Monitor) Record(recordType, details string) {
	rec := model.SuspiciousActivityRecord{
		ID:        uuid.NewString(),
		Type:      recordType,
		Details:   details,
		Timestamp: time.Now().UTC(),
		Origin:    m.origin,
	}

	m.mu.Lock()
	m.records = append(m.records, rec)
	if len(m.records) > maxRecords {
		m.records = m.records[len(m.records)-maxRecords:]
	}
	m.mu.Unlock()

	m.log.Warn().
		Str("type", rec.Type).
		Str("details", rec.Details).
		Msg("suspicious activity")

	if m.sinkURL != "" {
		go m.forward(rec)
	}
}

// List returns a defensive copy of the current records, oldest first.
func (m *Monitor) List() []model.SuspiciousActivityRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SuspiciousActivityRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Clear empties the buffer.
func (m *Monitor) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}

func (m *Monitor) forward(rec model.SuspiciousActivityRecord) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Debug().Interface("panic", r).Msg("audit forward panicked")
		}
	}()

	_, err := m.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(auditEvent{
			Type:      rec.Type,
			Details:   rec.Details,
			Timestamp: rec.Timestamp,
			UserAgent: userAgent,
			URL:       rec.Origin,
		}).
		Post(m.sinkURL)
	if err != nil {
		// Best effort only
		m.log.Debug().Err(err).Msg("audit forward failed")
	}
}
