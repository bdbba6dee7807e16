package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/model"
	"github.com/sakif/memories/internal/repository"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// Hand-written in-memory fakes. Each stores copies (never the caller's
// pointer) and returns apperror.NotFound exactly like the SQL store does.
// The *Err fields inject store failures for the error-path tests.

var errStoreDown = errors.New("connection refused")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type mockBucketRepo struct {
	items     map[string]*model.BucketItem
	nextID    int
	listErr   error
	deleteErr error
}

func newMockBucketRepo() *mockBucketRepo {
	return &mockBucketRepo{items: make(map[string]*model.BucketItem)}
}

func (m *mockBucketRepo) Create(_ context.Context, item *model.BucketItem) error {
	m.nextID++
	item.ID = fmt.Sprintf("bucket-%d", m.nextID)
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockBucketRepo) GetByID(_ context.Context, id string) (*model.BucketItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, apperror.NotFound("bucket item", id)
	}
	result := *item
	return &result, nil
}

func (m *mockBucketRepo) List(context.Context) ([]model.BucketItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.BucketItem, 0, len(m.items))
	for _, item := range m.items {
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockBucketRepo) Update(_ context.Context, item *model.BucketItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return apperror.NotFound("bucket item", item.ID)
	}
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockBucketRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.items[id]; !ok {
		return apperror.NotFound("bucket item", id)
	}
	delete(m.items, id)
	return nil
}

type mockEventRepo struct {
	events map[string]*model.Event
	order  []string
	nextID int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, e *model.Event) error {
	m.nextID++
	e.ID = fmt.Sprintf("event-%d", m.nextID)
	stored := *e
	m.events[e.ID] = &stored
	m.order = append(m.order, e.ID)
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, apperror.NotFound("event", id)
	}
	result := *e
	return &result, nil
}

// List returns newest first, like the SQL store.
func (m *mockEventRepo) List(context.Context) ([]model.Event, error) {
	result := []model.Event{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if e, ok := m.events[m.order[i]]; ok {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEventRepo) Update(_ context.Context, e *model.Event) error {
	if _, ok := m.events[e.ID]; !ok {
		return apperror.NotFound("event", e.ID)
	}
	stored := *e
	m.events[e.ID] = &stored
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return apperror.NotFound("event", id)
	}
	delete(m.events, id)
	return nil
}

type mockPoemRepo struct {
	poems  map[string]*model.Poem
	nextID int
	filter repository.PoemFilter // last filter passed to List
}

func newMockPoemRepo() *mockPoemRepo {
	return &mockPoemRepo{poems: make(map[string]*model.Poem)}
}

func (m *mockPoemRepo) Create(_ context.Context, p *model.Poem) error {
	m.nextID++
	p.ID = fmt.Sprintf("poem-%d", m.nextID)
	stored := *p
	m.poems[p.ID] = &stored
	return nil
}

func (m *mockPoemRepo) GetByID(_ context.Context, id string) (*model.Poem, error) {
	p, ok := m.poems[id]
	if !ok {
		return nil, apperror.NotFound("poem", id)
	}
	result := *p
	return &result, nil
}

func (m *mockPoemRepo) List(_ context.Context, filter repository.PoemFilter) ([]model.Poem, error) {
	m.filter = filter
	result := []model.Poem{}
	for _, p := range m.poems {
		if filter.Author == "" || p.Author == filter.Author {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPoemRepo) Update(_ context.Context, p *model.Poem) error {
	stored, ok := m.poems[p.ID]
	if !ok {
		return apperror.NotFound("poem", p.ID)
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.Language = p.Language
	return nil
}

func (m *mockPoemRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.poems[id]; !ok {
		return apperror.NotFound("poem", id)
	}
	delete(m.poems, id)
	return nil
}

type mockMemoryRepo struct {
	memories  map[string]*model.Memory
	nextID    int
	createErr error
	updateErr error
	deleteErr error
}

func newMockMemoryRepo() *mockMemoryRepo {
	return &mockMemoryRepo{memories: make(map[string]*model.Memory)}
}

func (m *mockMemoryRepo) Create(_ context.Context, mem *model.Memory) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	mem.ID = fmt.Sprintf("memory-%d", m.nextID)
	stored := *mem
	m.memories[mem.ID] = &stored
	return nil
}

func (m *mockMemoryRepo) GetByID(_ context.Context, id string) (*model.Memory, error) {
	mem, ok := m.memories[id]
	if !ok {
		return nil, apperror.NotFound("memory", id)
	}
	result := *mem
	return &result, nil
}

func (m *mockMemoryRepo) List(context.Context) ([]model.Memory, error) {
	result := []model.Memory{}
	for _, mem := range m.memories {
		result = append(result, *mem)
	}
	return result, nil
}

func (m *mockMemoryRepo) Update(_ context.Context, mem *model.Memory) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.memories[mem.ID]; !ok {
		return apperror.NotFound("memory", mem.ID)
	}
	stored := *mem
	m.memories[mem.ID] = &stored
	return nil
}

func (m *mockMemoryRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.memories[id]; !ok {
		return apperror.NotFound("memory", id)
	}
	delete(m.memories, id)
	return nil
}

// =========================================================================
// MOCK BLOB STORE
// =========================================================================

type mockBlobStore struct {
	blobs     map[string][]byte
	putErr    error
	deleteErr error
	deleted   []string
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (m *mockBlobStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.blobs[key] = b
	return nil
}

func (m *mockBlobStore) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, key)
	delete(m.blobs, key)
	return nil
}

func (m *mockBlobStore) has(key string) bool {
	_, ok := m.blobs[key]
	return ok
}

func jpeg(name string) *ImageUpload {
	data := []byte("\xff\xd8\xff" + name)
	return &ImageUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}
}
