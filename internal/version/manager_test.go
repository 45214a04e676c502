package version

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/Flowlab/internal/domain"
	"github.com/shaiso/Flowlab/internal/repo"
)

// fakeFlowStore keeps flows in memory.
type fakeFlowStore struct {
	flows map[uuid.UUID]*domain.Flow
}

func newFakeFlowStore() *fakeFlowStore {
	return &fakeFlowStore{flows: make(map[uuid.UUID]*domain.Flow)}
}

func (s *fakeFlowStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Flow, error) {
	f, ok := s.flows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *fakeFlowStore) Create(_ context.Context, flow *domain.Flow) error {
	cp := *flow
	s.flows[flow.ID] = &cp
	return nil
}

func (s *fakeFlowStore) visible(q repo.FlowListQuery) []domain.Flow {
	var out []domain.Flow
	for _, f := range s.flows {
		if !q.IsAdmin && f.UserID != q.UserID && !slices.Contains(q.GrantedIDs, f.ID) {
			continue
		}
		out = append(out, *f)
	}
	return out
}

func (s *fakeFlowStore) List(_ context.Context, q repo.FlowListQuery) ([]domain.Flow, error) {
	return s.visible(q), nil
}

func (s *fakeFlowStore) Count(_ context.Context, q repo.FlowListQuery) (int, error) {
	return len(s.visible(q)), nil
}

// fakeVersionStore keeps versions in memory and hands out sequential IDs.
type fakeVersionStore struct {
	versions map[int64]*domain.FlowVersion
	nextID   int64
}

func newFakeVersionStore() *fakeVersionStore {
	return &fakeVersionStore{versions: make(map[int64]*domain.FlowVersion), nextID: 1}
}

func (s *fakeVersionStore) GetByID(_ context.Context, id int64) (*domain.FlowVersion, error) {
	v, ok := s.versions[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *fakeVersionStore) GetByName(_ context.Context, flowID uuid.UUID, name string) (*domain.FlowVersion, error) {
	for _, v := range s.versions {
		if v.FlowID == flowID && v.Name == name {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *fakeVersionStore) ListByFlow(_ context.Context, flowID uuid.UUID) ([]domain.FlowVersion, error) {
	var out []domain.FlowVersion
	for _, v := range s.versions {
		if v.FlowID == flowID {
			out = append(out, *v)
		}
	}
	slices.SortFunc(out, func(a, b domain.FlowVersion) int {
		return int(b.ID - a.ID)
	})
	return out, nil
}

func (s *fakeVersionStore) ListByFlowIDs(_ context.Context, flowIDs []uuid.UUID) ([]domain.FlowVersion, error) {
	var out []domain.FlowVersion
	for _, v := range s.versions {
		if slices.Contains(flowIDs, v.FlowID) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *fakeVersionStore) Create(_ context.Context, v *domain.FlowVersion) error {
	v.ID = s.nextID
	s.nextID++
	cp := *v
	s.versions[v.ID] = &cp
	return nil
}

func (s *fakeVersionStore) Update(_ context.Context, v *domain.FlowVersion) error {
	stored, ok := s.versions[v.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.Name = v.Name
	stored.Description = v.Description
	stored.Data = v.Data
	return nil
}

func (s *fakeVersionStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.versions[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.versions, id)
	return nil
}

func (s *fakeVersionStore) SetCurrent(_ context.Context, flowID uuid.UUID, versionID int64) error {
	target, ok := s.versions[versionID]
	if !ok || target.FlowID != flowID {
		return repo.ErrNotFound
	}
	for _, v := range s.versions {
		if v.FlowID == flowID {
			v.IsCurrent = false
		}
	}
	target.IsCurrent = true
	return nil
}

func (s *fakeVersionStore) currentOf(flowID uuid.UUID) []int64 {
	var ids []int64
	for _, v := range s.versions {
		if v.FlowID == flowID && v.IsCurrent {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

// fakeUsers resolves known users by ID.
type fakeUsers struct {
	users map[uuid.UUID]string
}

func (s *fakeUsers) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.User, error) {
	var out []domain.User
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if name, ok := s.users[id]; ok {
			out = append(out, domain.User{ID: id, Name: name})
		}
	}
	return out, nil
}

// fakeAccess grants admin to listed users and write access to listed pairs.
type fakeAccess struct {
	admins  map[uuid.UUID]bool
	granted map[uuid.UUID][]uuid.UUID // userID -> readable flow IDs
}

func (a *fakeAccess) IsAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	return a.admins[userID], nil
}

func (a *fakeAccess) AccessCheck(_ context.Context, userID, ownerID, resourceID uuid.UUID, _ domain.AccessType) (bool, error) {
	if userID == ownerID || a.admins[userID] {
		return true, nil
	}
	return slices.Contains(a.granted[userID], resourceID), nil
}

func (a *fakeAccess) GrantedFlowIDs(_ context.Context, userID uuid.UUID, _ domain.AccessType) ([]uuid.UUID, error) {
	return a.granted[userID], nil
}

type fixture struct {
	manager  *Manager
	flows    *fakeFlowStore
	versions *fakeVersionStore
	users    *fakeUsers
	access   *fakeAccess
}

func newFixture() *fixture {
	f := &fixture{
		flows:    newFakeFlowStore(),
		versions: newFakeVersionStore(),
		users:    &fakeUsers{users: make(map[uuid.UUID]string)},
		access:   &fakeAccess{admins: make(map[uuid.UUID]bool), granted: make(map[uuid.UUID][]uuid.UUID)},
	}
	f.manager = New(Config{
		FlowStore:    f.flows,
		VersionStore: f.versions,
		Users:        f.users,
		Access:       f.access,
	})
	return f
}

func TestCreateFlow_InitialVersionIsCurrent(t *testing.T) {
	f := newFixture()
	owner := uuid.New()

	flow, err := f.manager.CreateFlow(context.Background(), owner, "demo", "", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("CreateFlow: %v", err)
	}
	if flow.Status != domain.FlowStatusDraft {
		t.Errorf("status = %v, want DRAFT", flow.Status)
	}

	current := f.versions.currentOf(flow.ID)
	if len(current) != 1 {
		t.Fatalf("current versions = %d, want exactly 1", len(current))
	}
	v, _ := f.versions.GetByID(context.Background(), current[0])
	if v.Name != "v0" {
		t.Errorf("initial version name = %q, want v0", v.Name)
	}
}

func TestCreateVersion_NewVersionIsNotCurrent(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	flow, _ := f.manager.CreateFlow(context.Background(), owner, "demo", "", nil)

	v, err := f.manager.CreateVersion(context.Background(), owner, flow.ID, "v1", "", json.RawMessage(`{"nodes":[]}`))
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if v.IsCurrent {
		t.Error("new version must not be current")
	}
	if got := f.versions.currentOf(flow.ID); len(got) != 1 {
		t.Errorf("current versions = %d, want 1", len(got))
	}
}

func TestCreateVersion_NameExists(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	flow, _ := f.manager.CreateFlow(context.Background(), owner, "demo", "", nil)

	if _, err := f.manager.CreateVersion(context.Background(), owner, flow.ID, "v1", "", nil); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	_, err := f.manager.CreateVersion(context.Background(), owner, flow.ID, "v1", "", nil)
	if !errors.Is(err, ErrNameExists) {
		t.Errorf("err = %v, want ErrNameExists", err)
	}
}

func TestSetCurrentVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := uuid.New()
	flow, _ := f.manager.CreateFlow(ctx, owner, "demo", "", nil)
	v1, _ := f.manager.CreateVersion(ctx, owner, flow.ID, "v1", "", nil)

	if err := f.manager.SetCurrentVersion(ctx, owner, flow.ID, v1.ID); err != nil {
		t.Fatalf("SetCurrentVersion: %v", err)
	}

	// Exactly one current version after the switch.
	current := f.versions.currentOf(flow.ID)
	if len(current) != 1 || current[0] != v1.ID {
		t.Errorf("current versions = %v, want [%d]", current, v1.ID)
	}

	// Switching to the already current version is a no-op success.
	if err := f.manager.SetCurrentVersion(ctx, owner, flow.ID, v1.ID); err != nil {
		t.Errorf("repeated SetCurrentVersion: %v", err)
	}
}

func TestSetCurrentVersion_WrongFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := uuid.New()
	flowA, _ := f.manager.CreateFlow(ctx, owner, "a", "", nil)
	flowB, _ := f.manager.CreateFlow(ctx, owner, "b", "", nil)
	vB, _ := f.manager.CreateVersion(ctx, owner, flowB.ID, "v1", "", nil)

	// A version of another flow cannot become current here.
	err := f.manager.SetCurrentVersion(ctx, owner, flowA.ID, vB.ID)
	if !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("err = %v, want ErrVersionNotFound", err)
	}
}

func TestSetCurrentVersion_OnlineLocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := uuid.New()
	flow, _ := f.manager.CreateFlow(ctx, owner, "demo", "", nil)
	v1, _ := f.manager.CreateVersion(ctx, owner, flow.ID, "v1", "", nil)

	f.flows.flows[flow.ID].Status = domain.FlowStatusOnline

	err := f.manager.SetCurrentVersion(ctx, owner, flow.ID, v1.ID)
	if !errors.Is(err, ErrOnlineEditLocked) {
		t.Errorf("err = %v, want ErrOnlineEditLocked", err)
	}
}

func TestDeleteVersion_CurrentIsProtected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := uuid.New()
	admin := uuid.New()
	f.access.admins[admin] = true

	flow, _ := f.manager.CreateFlow(ctx, owner, "demo", "", nil)
	current := f.versions.currentOf(flow.ID)[0]

	// The current version stays even for an admin caller.
	for _, caller := range []uuid.UUID{owner, admin} {
		err := f.manager.DeleteVersion(ctx, caller, current)
		if !errors.Is(err, ErrCurrentVersionConflict) {
			t.Errorf("caller %s: err = %v, want ErrCurrentVersionConflict", caller, err)
		}
	}
}

func TestDeleteVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := uuid.New()
	flow, _ := f.manager.CreateFlow(ctx, owner, "demo", "", nil)
	v1, _ := f.manager.CreateVersion(ctx, owner, flow.ID, "v1", "", nil)

	if err := f.manager.DeleteVersion(ctx, owner, v1.ID); err != nil {
		t.Fatalf("DeleteVersion: %v", err)
	}
	if _, err := f.manager.GetVersion(ctx, v1.ID); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("err = %v, want ErrVersionNotFound after delete", err)
	}
}

func TestDeleteVersion_Unauthorized(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := uuid.New()
	stranger := uuid.New()
	flow, _ := f.manager.CreateFlow(ctx, owner, "demo", "", nil)
	v1, _ := f.manager.CreateVersion(ctx, owner, flow.ID, "v1", "", nil)

	err := f.manager.DeleteVersion(ctx, stranger, v1.ID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestUpdateVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := uuid.New()
	flow, _ := f.manager.CreateFlow(ctx, owner, "demo", "", nil)
	v1, _ := f.manager.CreateVersion(ctx, owner, flow.ID, "v1", "old", nil)

	name := "v1-renamed"
	got, err := f.manager.UpdateVersion(ctx, owner, v1.ID, VersionUpdate{
		Name: &name,
		Data: json.RawMessage(`{"nodes":[1]}`),
	})
	if err != nil {
		t.Fatalf("UpdateVersion: %v", err)
	}
	if got.Name != name {
		t.Errorf("name = %q, want %q", got.Name, name)
	}
	// Description was not supplied and stays intact.
	if got.Description != "old" {
		t.Errorf("description = %q, want old", got.Description)
	}
	if string(got.Data) != `{"nodes":[1]}` {
		t.Errorf("data = %s", got.Data)
	}
}

func TestUpdateVersion_OnlineLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := uuid.New()
	flow, _ := f.manager.CreateFlow(ctx, owner, "demo", "", nil)
	current := f.versions.currentOf(flow.ID)[0]
	v1, _ := f.manager.CreateVersion(ctx, owner, flow.ID, "v1", "", nil)

	f.flows.flows[flow.ID].Status = domain.FlowStatusOnline

	// The current version of an online flow is locked.
	name := "renamed"
	_, err := f.manager.UpdateVersion(ctx, owner, current, VersionUpdate{Name: &name})
	if !errors.Is(err, ErrOnlineEditLocked) {
		t.Errorf("current version: err = %v, want ErrOnlineEditLocked", err)
	}

	// Non-current versions stay editable.
	if _, err := f.manager.UpdateVersion(ctx, owner, v1.ID, VersionUpdate{Name: &name}); err != nil {
		t.Errorf("non-current version: %v", err)
	}
}

func TestListVersions_FlowNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.manager.ListVersions(context.Background(), uuid.New())
	if !errors.Is(err, ErrFlowNotFound) {
		t.Errorf("err = %v, want ErrFlowNotFound", err)
	}
}

func TestListFlows(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	owner := uuid.New()
	other := uuid.New()
	admin := uuid.New()
	f.access.admins[admin] = true
	f.users.users[owner] = "alice"

	own, _ := f.manager.CreateFlow(ctx, owner, "mine", "", nil)
	foreign, _ := f.manager.CreateFlow(ctx, other, "theirs", "", nil)
	granted, _ := f.manager.CreateFlow(ctx, other, "shared", "", nil)
	f.access.granted[owner] = []uuid.UUID{granted.ID}

	t.Run("admin sees everything", func(t *testing.T) {
		list, err := f.manager.ListFlows(ctx, admin, ListFlowsQuery{})
		if err != nil {
			t.Fatalf("ListFlows: %v", err)
		}
		if list.Total != 3 || len(list.Items) != 3 {
			t.Errorf("total = %d, items = %d, want 3/3", list.Total, len(list.Items))
		}
		for _, it := range list.Items {
			if !it.Write {
				t.Errorf("flow %s: admin must have write", it.Name)
			}
		}
	})

	t.Run("non-admin sees own and granted", func(t *testing.T) {
		list, err := f.manager.ListFlows(ctx, owner, ListFlowsQuery{})
		if err != nil {
			t.Fatalf("ListFlows: %v", err)
		}
		if list.Total != 2 || len(list.Items) != 2 {
			t.Fatalf("total = %d, items = %d, want 2/2", list.Total, len(list.Items))
		}
		for _, it := range list.Items {
			switch it.ID {
			case own.ID:
				if !it.Write {
					t.Error("owner must have write on own flow")
				}
				if it.UserName != "alice" {
					t.Errorf("user_name = %q, want alice", it.UserName)
				}
				if len(it.Versions) != 1 {
					t.Errorf("versions = %d, want 1", len(it.Versions))
				}
			case granted.ID:
				if it.Write {
					t.Error("granted read must not imply write")
				}
				// Owner is unknown to the directory, ID string is the fallback.
				if it.UserName != other.String() {
					t.Errorf("user_name = %q, want owner id", it.UserName)
				}
			case foreign.ID:
				t.Error("foreign flow must not be visible")
			}
		}
	})
}
