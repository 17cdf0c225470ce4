package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

// Memory is an in-process gateway backed by per-collection record maps. It
// replaces the module-level mock arrays of earlier incarnations with an
// explicit object that can be injected and scoped to the hosting session.
// Used by tests and by GATEWAY_MODE=memory for local development.
type Memory struct {
	mu     sync.Mutex
	data   map[Collection]map[int]Record
	order  map[Collection][]int
	nextID int
	now    func() time.Time
}

// NewMemory returns an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{
		data:   make(map[Collection]map[int]Record),
		order:  make(map[Collection][]int),
		nextID: 1,
		now:    time.Now,
	}
}

func (m *Memory) collection(c Collection) map[int]Record {
	if m.data[c] == nil {
		m.data[c] = make(map[int]Record)
	}
	return m.data[c]
}

// FetchRecords applies where conditions, ordering and paging over the
// collection, preserving insertion order for unfiltered fetches.
func (m *Memory) FetchRecords(_ context.Context, collection Collection, q Query) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]Record, 0, len(m.order[collection]))
	for _, id := range m.order[collection] {
		rec := m.collection(collection)[id]
		if rec == nil || !matches(rec, q.Where) {
			continue
		}
		records = append(records, cloneRecord(rec))
	}

	for i := len(q.OrderBy) - 1; i >= 0; i-- {
		ord := q.OrderBy[i]
		sort.SliceStable(records, func(a, b int) bool {
			less := compareFieldValues(records[a][ord.Field], records[b][ord.Field])
			if ord.Desc {
				return less > 0
			}
			return less < 0
		})
	}

	if q.Paging != nil {
		start := q.Paging.Offset
		if start > len(records) {
			start = len(records)
		}
		end := len(records)
		if q.Paging.Limit > 0 && start+q.Paging.Limit < end {
			end = start + q.Paging.Limit
		}
		records = records[start:end]
	}
	return records, nil
}

// GetRecordByID returns a single record or httpx.ErrNotFound.
func (m *Memory) GetRecordByID(_ context.Context, collection Collection, id int, _ Query) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.collection(collection)[id]
	if !ok {
		return nil, fmt.Errorf("gateway: %s %d: %w", collection, id, httpx.ErrNotFound)
	}
	return cloneRecord(rec), nil
}

// CreateRecords assigns ids and timestamps, then appends the records.
func (m *Memory) CreateRecords(_ context.Context, collection Collection, records []Record) (BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result BatchResult
	for _, rec := range records {
		stored := cloneRecord(rec)
		stored.SetID(m.nextID)
		m.nextID++
		stamp := m.now().UTC().Format(time.RFC3339)
		stored["CreatedOn"] = stamp
		stored["ModifiedOn"] = stamp
		m.collection(collection)[stored.ID()] = stored
		m.order[collection] = append(m.order[collection], stored.ID())
		result.Succeeded = append(result.Succeeded, cloneRecord(stored))
	}
	return result, nil
}

// UpdateRecords merges fields into existing records by Id. Unknown ids are
// reported as per-record failures, not a collapsed error.
func (m *Memory) UpdateRecords(_ context.Context, collection Collection, records []Record) (BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result BatchResult
	for i, rec := range records {
		existing, ok := m.collection(collection)[rec.ID()]
		if !ok {
			result.Failed = append(result.Failed, RecordFailure{
				Index:   i,
				Message: fmt.Sprintf("record %d does not exist", rec.ID()),
			})
			continue
		}
		for k, v := range rec {
			if k == "Id" || k == "CreatedOn" {
				continue
			}
			existing[k] = v
		}
		existing["ModifiedOn"] = m.now().UTC().Format(time.RFC3339)
		result.Succeeded = append(result.Succeeded, cloneRecord(existing))
	}
	return result, nil
}

// DeleteRecords removes records by id with per-record outcomes.
func (m *Memory) DeleteRecords(_ context.Context, collection Collection, ids []int) (BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result BatchResult
	for i, id := range ids {
		if _, ok := m.collection(collection)[id]; !ok {
			result.Failed = append(result.Failed, RecordFailure{
				Index:   i,
				Message: fmt.Sprintf("record %d does not exist", id),
			})
			continue
		}
		delete(m.collection(collection), id)
		order := m.order[collection]
		for j, oid := range order {
			if oid == id {
				m.order[collection] = append(order[:j], order[j+1:]...)
				break
			}
		}
		result.Succeeded = append(result.Succeeded, Record{"Id": id})
	}
	return result, nil
}

func matches(rec Record, conditions []Condition) bool {
	for _, c := range conditions {
		if len(c.Values) == 0 {
			continue
		}
		field := fieldAsString(rec, c.Field)
		switch c.Operator {
		case OpContains:
			if !strings.Contains(strings.ToLower(field), strings.ToLower(c.Values[0])) {
				return false
			}
		default: // EqualTo
			found := false
			for _, v := range c.Values {
				if field == v {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func fieldAsString(rec Record, field string) string {
	switch v := rec[field].(type) {
	case string:
		return v
	case float64:
		if v == float64(int(v)) {
			return fmt.Sprintf("%d", int(v))
		}
		return fmt.Sprintf("%g", v)
	case int:
		return fmt.Sprintf("%d", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case map[string]any:
		if id, ok := toInt(v["Id"]); ok {
			return fmt.Sprintf("%d", id)
		}
		return ""
	default:
		return ""
	}
}

func compareFieldValues(a, b any) int {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return strings.Compare(as, bs)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
