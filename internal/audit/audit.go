package audit

import (
	"context"
	"sort"
	"time"

	"github.com/UmidYul/21-IDUM/internal/store"
	"github.com/UmidYul/21-IDUM/model"
	"github.com/UmidYul/21-IDUM/params"
)

// LoginRecord carries the request context of a successful login.
type LoginRecord struct {
	User      model.Identity
	IP        string
	UserAgent string
}

// Recorder keeps a bounded, time-windowed log of login events inside the
// shared document. Entries are pruned opportunistically whenever the log
// is written or read.
type Recorder struct {
	db        *store.DocumentStore
	retention time.Duration
	maxSize   int
}

func NewRecorder(db *store.DocumentStore) *Recorder {
	return &Recorder{
		db:        db,
		retention: params.AuditRetention,
		maxSize:   params.AuditMaxEntries,
	}
}

// normalizeIP maps loopback addresses to a canonical readable form.
func normalizeIP(ip string) string {
	if ip == "::1" || ip == "[::1]" {
		return "127.0.0.1"
	}
	if ip == "" {
		return "unknown"
	}
	return ip
}

func (r *Recorder) pruneLocked(doc *model.Document, now time.Time) int {
	cutoff := now.Add(-r.retention)
	kept := doc.AuditLog[:0]
	for _, e := range doc.AuditLog {
		if e.At.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	removed := len(doc.AuditLog) - len(kept)
	doc.AuditLog = kept

	// the hard cap wins over the retention window
	if excess := len(doc.AuditLog) - r.maxSize; excess > 0 {
		doc.AuditLog = append(doc.AuditLog[:0], doc.AuditLog[excess:]...)
		removed += excess
	}
	return removed
}

// RecordLogin appends a login event, pruning stale entries first and
// enforcing the hard cap after. Failures are the caller's to swallow;
// audit recording must never fail a login.
func (r *Recorder) RecordLogin(ctx context.Context, record LoginRecord) error {
	now := time.Now().UTC()
	return r.db.Update(func(doc *model.Document) error {
		r.pruneLocked(doc, now)
		doc.AuditLog = append(doc.AuditLog, model.AuditEntry{
			ID:        model.GenerateID(),
			Type:      model.EventTypeLogin,
			UserID:    record.User.ID,
			Username:  record.User.Username,
			Role:      record.User.Role,
			IP:        normalizeIP(record.IP),
			UserAgent: record.UserAgent,
			At:        now,
		})
		if excess := len(doc.AuditLog) - r.maxSize; excess > 0 {
			doc.AuditLog = append(doc.AuditLog[:0], doc.AuditLog[excess:]...)
		}
		return nil
	})
}

// RecentLogins returns login events newest-first, at most limit entries.
// limit is clamped to [1, 100]; zero or negative falls back to the
// default page size. Stale entries found along the way are pruned
// write-through.
func (r *Recorder) RecentLogins(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = params.AuditDefaultLimit
	}
	if limit > params.AuditMaxQueryLimit {
		limit = params.AuditMaxQueryLimit
	}

	now := time.Now().UTC()
	var out []model.AuditEntry
	err := r.db.Update(func(doc *model.Document) error {
		removed := r.pruneLocked(doc, now)

		for _, e := range doc.AuditLog {
			if e.Type != model.EventTypeLogin {
				continue
			}
			e.IP = normalizeIP(e.IP)
			out = append(out, e)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
		if len(out) > limit {
			out = out[:limit]
		}

		if removed == 0 {
			return store.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
