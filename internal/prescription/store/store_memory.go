package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"anuragmeds/internal/prescription/models"
	"anuragmeds/pkg/platform/sentinel"
)

type memoryRecord struct {
	meta models.Prescription
	file []byte
}

// InMemory mirrors the PostgresStore contract for unit tests: same ordering,
// same cap behavior, same not-found semantics for missing files.
type InMemory struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]*memoryRecord

	// OwnerLookup, when set, resolves owner contact fields for ListAll the
	// way the SQL left join does.
	OwnerLookup func(userID int64) (name, phone string, ok bool)
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[int64]*memoryRecord)}
}

func (s *InMemory) Create(_ context.Context, p *models.Prescription, file []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if file != nil {
		p.FileSize = int64(len(file))
	}
	meta := *p
	var cp []byte
	if file != nil {
		cp = append([]byte(nil), file...)
	}
	s.records[p.ID] = &memoryRecord{meta: meta, file: cp}
	return nil
}

func (s *InMemory) ListByOwner(_ context.Context, userID int64) ([]models.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Prescription
	for _, rec := range s.records {
		if rec.meta.UserID != nil && *rec.meta.UserID == userID {
			out = append(out, rec.meta)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) ListAll(_ context.Context, limit int) ([]models.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Prescription, 0, len(s.records))
	for _, rec := range s.records {
		meta := rec.meta
		if s.OwnerLookup != nil && meta.UserID != nil {
			if name, phone, ok := s.OwnerLookup(*meta.UserID); ok {
				meta.OwnerName = &name
				meta.OwnerPhone = &phone
			}
		}
		out = append(out, meta)
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) FindMeta(_ context.Context, id int64) (*models.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	meta := rec.meta
	return &meta, nil
}

func (s *InMemory) FindFile(_ context.Context, id int64) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok || rec.file == nil {
		return nil, sentinel.ErrNotFound
	}
	return &models.File{
		Name:  rec.meta.FileName,
		Mime:  rec.meta.FileMime,
		Bytes: append([]byte(nil), rec.file...),
	}, nil
}

func sortNewestFirst(records []models.Prescription) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
