package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// In-memory repository stubs shared by the service tests. The user repo is
// mutex-guarded because the import worker pool registers rows concurrently.

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.NewConflictError("username must be unique")
		}
		if u.Email == user.Email {
			return nil, domain.NewConflictError("email must be unique")
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = "user-" + strconv.Itoa(r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, username, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Username = username
	u.Email = email
	return cloneUser(u), nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

// seed inserts a user directly, bypassing uniqueness checks.
func (r *stubUserRepo) seed(id, username, role string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &domain.User{
		ID:       id,
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
		Role:     role,
	}
	r.users[id] = u
	return cloneUser(u)
}

type stubShareRepo struct {
	shares map[string]*domain.Share
	seq    int
}

func newStubShareRepo() *stubShareRepo {
	return &stubShareRepo{shares: make(map[string]*domain.Share)}
}

func cloneShare(s *domain.Share) *domain.Share {
	clone := *s
	return &clone
}

func (r *stubShareRepo) Upsert(_ context.Context, share *domain.Share) (*domain.Share, error) {
	for _, s := range r.shares {
		if s.GranteeID == share.GranteeID && s.ResourceType == share.ResourceType && s.ResourceID == share.ResourceID {
			s.Level = share.Level
			s.UpdatedAt = share.UpdatedAt
			return cloneShare(s), nil
		}
	}
	r.seq++
	copy := cloneShare(share)
	copy.ID = "share-" + strconv.Itoa(r.seq)
	r.shares[copy.ID] = cloneShare(copy)
	return copy, nil
}

func (r *stubShareRepo) FindByID(_ context.Context, id string) (*domain.Share, error) {
	s, ok := r.shares[id]
	if !ok {
		return nil, domain.ErrShareNotFound
	}
	return cloneShare(s), nil
}

func (r *stubShareRepo) FindByGranteeAndResource(_ context.Context, granteeID string, resourceType domain.ResourceType, resourceID string) (*domain.Share, error) {
	for _, s := range r.shares {
		if s.GranteeID == granteeID && s.ResourceType == resourceType && s.ResourceID == resourceID {
			return cloneShare(s), nil
		}
	}
	return nil, domain.ErrShareNotFound
}

func (r *stubShareRepo) UpdateLevel(_ context.Context, id string, level domain.AccessLevel) (*domain.Share, error) {
	s, ok := r.shares[id]
	if !ok {
		return nil, domain.ErrShareNotFound
	}
	s.Level = level
	return cloneShare(s), nil
}

func (r *stubShareRepo) Delete(_ context.Context, id string) error {
	delete(r.shares, id)
	return nil
}

func (r *stubShareRepo) ListForResource(_ context.Context, resourceType domain.ResourceType, resourceID string) ([]domain.Share, error) {
	var out []domain.Share
	for _, s := range r.shares {
		if s.ResourceType == resourceType && s.ResourceID == resourceID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubShareRepo) ListForGrantee(_ context.Context, granteeID string) ([]domain.Share, error) {
	var out []domain.Share
	for _, s := range r.shares {
		if s.GranteeID == granteeID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubShareRepo) removeForResource(resourceType domain.ResourceType, resourceID string) {
	for id, s := range r.shares {
		if s.ResourceType == resourceType && s.ResourceID == resourceID {
			delete(r.shares, id)
		}
	}
}

type stubAssetRepo struct {
	folders map[string]*domain.Folder
	notes   map[string]*domain.Note
	// shares, when set, is cleaned up by the cascading deletes the same
	// way the storage transaction does.
	shares   *stubShareRepo
	seq      int
	cascades int
}

func newStubAssetRepo(shares *stubShareRepo) *stubAssetRepo {
	return &stubAssetRepo{
		folders: make(map[string]*domain.Folder),
		notes:   make(map[string]*domain.Note),
		shares:  shares,
	}
}

func (r *stubAssetRepo) CreateFolder(_ context.Context, folder *domain.Folder) (*domain.Folder, error) {
	r.seq++
	copy := *folder
	copy.ID = "folder-" + strconv.Itoa(r.seq)
	r.folders[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubAssetRepo) FindFolder(_ context.Context, id string) (*domain.Folder, error) {
	f, ok := r.folders[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	out := *f
	return &out, nil
}

func (r *stubAssetRepo) ListFoldersByOwner(_ context.Context, ownerID string) ([]domain.Folder, error) {
	var out []domain.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *stubAssetRepo) RenameFolder(_ context.Context, id, name string) (*domain.Folder, error) {
	f, ok := r.folders[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	f.Name = name
	out := *f
	return &out, nil
}

func (r *stubAssetRepo) DeleteFolderCascade(_ context.Context, id string) error {
	if _, ok := r.folders[id]; !ok {
		return domain.ErrResourceNotFound
	}
	for noteID, n := range r.notes {
		if n.FolderID == id {
			delete(r.notes, noteID)
			if r.shares != nil {
				r.shares.removeForResource(domain.ResourceNote, noteID)
			}
		}
	}
	if r.shares != nil {
		r.shares.removeForResource(domain.ResourceFolder, id)
	}
	delete(r.folders, id)
	r.cascades++
	return nil
}

func (r *stubAssetRepo) CreateNote(_ context.Context, note *domain.Note) (*domain.Note, error) {
	r.seq++
	copy := *note
	copy.ID = "note-" + strconv.Itoa(r.seq)
	r.notes[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubAssetRepo) FindNote(_ context.Context, id string) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	out := *n
	return &out, nil
}

func (r *stubAssetRepo) ListNotesByFolder(_ context.Context, folderID string) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range r.notes {
		if n.FolderID == folderID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *stubAssetRepo) ListNotesByOwner(_ context.Context, ownerID string) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range r.notes {
		if n.OwnerID == ownerID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *stubAssetRepo) UpdateNote(_ context.Context, id, title, content string) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	n.Title = title
	n.Content = content
	out := *n
	return &out, nil
}

func (r *stubAssetRepo) DeleteNote(_ context.Context, id string) error {
	if _, ok := r.notes[id]; !ok {
		return domain.ErrResourceNotFound
	}
	delete(r.notes, id)
	if r.shares != nil {
		r.shares.removeForResource(domain.ResourceNote, id)
	}
	return nil
}

func (r *stubAssetRepo) FindResource(_ context.Context, resourceType domain.ResourceType, id string) (*domain.Resource, error) {
	switch resourceType {
	case domain.ResourceFolder:
		if f, ok := r.folders[id]; ok {
			return &domain.Resource{Type: resourceType, ID: id, OwnerID: f.OwnerID}, nil
		}
	case domain.ResourceNote:
		if n, ok := r.notes[id]; ok {
			return &domain.Resource{Type: resourceType, ID: id, OwnerID: n.OwnerID}, nil
		}
	}
	return nil, domain.ErrResourceNotFound
}

type stubSink struct {
	events []domain.AssetEvent
}

func (s *stubSink) Enqueue(event domain.AssetEvent) {
	s.events = append(s.events, event)
}

func (s *stubSink) lastType() string {
	if len(s.events) == 0 {
		return ""
	}
	return s.events[len(s.events)-1].Type
}
