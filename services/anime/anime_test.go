package anime

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniweek-io/web-ui/models"
)

// --- Mock implementations ---

type mockStore struct {
	byID   map[int64]*models.Anime
	nextID int64

	addErr    error
	updateErr error
	listErr   error
}

func newMockStore() *mockStore {
	return &mockStore{byID: map[int64]*models.Anime{}}
}

func (m *mockStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, m)
}

func (m *mockStore) Add(ctx context.Context, a *models.Anime) (*models.Anime, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	for _, rec := range m.byID {
		if rec.Name == a.Name {
			return nil, models.ErrNameTaken
		}
	}
	m.nextID++
	a.ID = m.nextID
	m.byID[a.ID] = a
	return a, nil
}

func (m *mockStore) AddList(ctx context.Context, list []*models.Anime) ([]*models.Anime, error) {
	for _, a := range list {
		if _, err := m.Add(ctx, a); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (m *mockStore) GetByID(_ context.Context, id int64) (*models.Anime, error) {
	return m.byID[id], nil
}

func (m *mockStore) GetByName(_ context.Context, name string) (*models.Anime, error) {
	for _, rec := range m.byID {
		if rec.Name == name {
			return rec, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetByNameExcept(_ context.Context, name string, id int64) (*models.Anime, error) {
	for _, rec := range m.byID {
		if rec.Name == name && rec.ID != id {
			return rec, nil
		}
	}
	return nil, nil
}

func (m *mockStore) Update(_ context.Context, a *models.Anime) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.byID[a.ID] = a
	return nil
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	delete(m.byID, id)
	return nil
}

func (m *mockStore) List(_ context.Context) ([]*models.Anime, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	list := make([]*models.Anime, 0, len(m.byID))
	for _, rec := range m.byID {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (m *mockStore) SearchByName(_ context.Context, query string) ([]*models.Anime, error) {
	var list []*models.Anime
	for _, rec := range m.byID {
		if strings.Contains(strings.ToLower(rec.Name), strings.ToLower(query)) {
			list = append(list, rec)
		}
	}
	return list, nil
}

type mockEvents struct {
	nextID  int
	added   []string
	deleted []string

	addErr    error
	deleteErr error
}

func (m *mockEvents) AddEvent(_ context.Context, _ string, _ int64, _, _ int) (string, error) {
	if m.addErr != nil {
		return "", m.addErr
	}
	m.nextID++
	id := fmt.Sprintf("ev-%d", m.nextID)
	m.added = append(m.added, id)
	return id, nil
}

func (m *mockEvents) DeleteEvent(_ context.Context, eventID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, eventID)
	return nil
}

func newTestService(store Store, events EventStore) *Service {
	return NewService(store, events, testAiringEngine())
}

// --- Tests ---

func TestServiceAdd(t *testing.T) {
	store := newMockStore()
	events := &mockEvents{}
	svc := newTestService(store, events)

	en, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)
	require.NotNil(t, en)
	assert.Equal(t, "Frieren", en.Name)
	assert.Equal(t, 5, en.CurrentEpisode)
	require.NotNil(t, en.EventID)
	assert.Equal(t, "ev-1", *en.EventID)
	assert.Len(t, store.byID, 1)
}

func TestServiceAddWithoutEventStore(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, nil)

	en, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)
	assert.Nil(t, en.EventID)
}

func TestServiceAddDuplicateName(t *testing.T) {
	store := newMockStore()
	events := &mockEvents{}
	svc := newTestService(store, events)

	_, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), validSerializingForm())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	// no second event was left behind
	assert.Len(t, events.added, 1)
}

func TestServiceAddEventFailureAbortsInsert(t *testing.T) {
	store := newMockStore()
	events := &mockEvents{addErr: errors.New("calendar down")}
	svc := newTestService(store, events)

	_, err := svc.Add(context.Background(), validSerializingForm())
	require.Error(t, err)
	assert.Empty(t, store.byID)
}

func TestServiceAddCompensatesEventOnInsertFailure(t *testing.T) {
	store := newMockStore()
	store.addErr = errors.New("insert failed")
	events := &mockEvents{}
	svc := newTestService(store, events)

	_, err := svc.Add(context.Background(), validSerializingForm())
	require.Error(t, err)
	require.Len(t, events.added, 1)
	assert.Equal(t, events.added, events.deleted)
}

func TestServiceEdit(t *testing.T) {
	store := newMockStore()
	events := &mockEvents{}
	svc := newTestService(store, events)

	en, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)

	f := validSerializingForm()
	f.Name = "Frieren S2"
	updated, err := svc.Edit(context.Background(), en.ID, f)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Frieren S2", updated.Name)
	// old event replaced by a fresh one
	assert.Equal(t, []string{"ev-1"}, events.deleted)
	require.NotNil(t, updated.EventID)
	assert.Equal(t, "ev-2", *updated.EventID)
}

func TestServiceEditMissingID(t *testing.T) {
	store := newMockStore()
	events := &mockEvents{}
	svc := newTestService(store, events)

	updated, err := svc.Edit(context.Background(), 42, validSerializingForm())
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Empty(t, events.added)
	assert.Empty(t, events.deleted)
}

func TestServiceEditDuplicateName(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, nil)

	first, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)
	f := validSerializingForm()
	f.Name = "Other"
	_, err = svc.Add(context.Background(), f)
	require.NoError(t, err)

	f = validSerializingForm()
	f.Name = "Other"
	_, err = svc.Edit(context.Background(), first.ID, f)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
}

func TestServiceDelete(t *testing.T) {
	store := newMockStore()
	events := &mockEvents{}
	svc := newTestService(store, events)

	en, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), en.ID))
	assert.Empty(t, store.byID)
	assert.Equal(t, []string{"ev-1"}, events.deleted)
}

func TestServiceDeleteMissingID(t *testing.T) {
	store := newMockStore()
	events := &mockEvents{}
	svc := newTestService(store, events)

	require.NoError(t, svc.Delete(context.Background(), 42))
	assert.Empty(t, events.deleted)
}

func TestServiceDeleteWithoutEventID(t *testing.T) {
	store := newMockStore()
	events := &mockEvents{}
	svc := newTestService(store, nil)

	en, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)

	svc = newTestService(store, events)
	require.NoError(t, svc.Delete(context.Background(), en.ID))
	assert.Empty(t, events.deleted)
}

func TestServiceGet(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, nil)

	en, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), en.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, en.Name, got.Name)

	missing, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestServiceListByName(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, nil)

	for _, name := range []string{"gamma", "Alpha", "beta"} {
		f := validSerializingForm()
		f.Name = name
		_, err := svc.Add(context.Background(), f)
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "beta", list[1].Name)
	assert.Equal(t, "gamma", list[2].Name)
}

func TestServiceListNewestFirst(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, nil)

	for _, name := range []string{"first", "second"} {
		f := validSerializingForm()
		f.Name = name
		_, err := svc.Add(context.Background(), f)
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
}

func TestServiceSearch(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, nil)

	f := validSerializingForm()
	f.Name = "Frieren"
	_, err := svc.Add(context.Background(), f)
	require.NoError(t, err)

	hits, err := svc.Search(context.Background(), "rier")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = svc.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestServiceImportRecordsSkipsExisting(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, nil)

	_, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)

	added, skipped, err := svc.ImportRecords(context.Background(), []*models.Anime{
		{Name: "Frieren", TotalEpisode: 12, Cover: "https://example.com/c.jpg"},
		{Name: "New Show", TotalEpisode: 24, Cover: "https://example.com/n.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"Frieren"}, skipped)
	assert.Len(t, store.byID, 2)
}

func TestServiceRefreshDerived(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, nil)

	_, err := svc.Add(context.Background(), validSerializingForm())
	require.NoError(t, err)
	require.NoError(t, svc.RefreshDerived(context.Background()))

	store.listErr = errors.New("db gone")
	svc.InvalidateDerived(0)
	assert.Error(t, svc.RefreshDerived(context.Background()))
}
