package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/notehub/notehub-api/internal/core/domain"
)

type shareFixture struct {
	svc      *ShareService
	users    *stubUserRepo
	assets   *stubAssetRepo
	shares   *stubShareRepo
	sink     *stubSink
	folderID string
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()
	users := newStubUserRepo()
	shares := newStubShareRepo()
	assets := newStubAssetRepo(shares)
	sink := &stubSink{}

	users.seed("owner", "owner", domain.RoleMember)
	users.seed("grantee", "grantee", domain.RoleMember)

	folder, err := assets.CreateFolder(context.Background(), &domain.Folder{Name: "docs", OwnerID: "owner"})
	if err != nil {
		t.Fatalf("seed folder: %v", err)
	}

	return &shareFixture{
		svc:      NewShareService(shares, assets, users, sink, zerolog.Nop()),
		users:    users,
		assets:   assets,
		shares:   shares,
		sink:     sink,
		folderID: folder.ID,
	}
}

func TestShareService_Grant(t *testing.T) {
	f := newShareFixture(t)

	share, err := f.svc.Grant(context.Background(), "owner", "grantee", domain.ResourceFolder, f.folderID, domain.AccessRead)
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if share.ID == "" || share.Level != domain.AccessRead || share.GrantedByID != "owner" {
		t.Fatalf("unexpected share: %+v", share)
	}
	if f.sink.lastType() != domain.EventFolderShared {
		t.Fatalf("expected %s event, got %q", domain.EventFolderShared, f.sink.lastType())
	}
}

func TestShareService_Grant_Idempotent(t *testing.T) {
	f := newShareFixture(t)

	first, err := f.svc.Grant(context.Background(), "owner", "grantee", domain.ResourceFolder, f.folderID, domain.AccessRead)
	if err != nil {
		t.Fatalf("first grant failed: %v", err)
	}
	second, err := f.svc.Grant(context.Background(), "owner", "grantee", domain.ResourceFolder, f.folderID, domain.AccessWrite)
	if err != nil {
		t.Fatalf("second grant failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("re-grant created a new share: %s vs %s", second.ID, first.ID)
	}
	if second.Level != domain.AccessWrite {
		t.Fatalf("re-grant did not replace level: %s", second.Level)
	}
	if len(f.shares.shares) != 1 {
		t.Fatalf("expected 1 stored share, got %d", len(f.shares.shares))
	}
}

func TestShareService_Grant_Rejections(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Grant(ctx, "grantee", "owner", domain.ResourceFolder, f.folderID, domain.AccessRead); err != domain.ErrInvalidGrant {
		t.Fatalf("non-owner grantor: expected ErrInvalidGrant, got %v", err)
	}
	if _, err := f.svc.Grant(ctx, "owner", "owner", domain.ResourceFolder, f.folderID, domain.AccessRead); err != domain.ErrInvalidGrant {
		t.Fatalf("self-grant: expected ErrInvalidGrant, got %v", err)
	}
	if _, err := f.svc.Grant(ctx, "owner", "nobody", domain.ResourceFolder, f.folderID, domain.AccessRead); err != domain.ErrUserNotFound {
		t.Fatalf("unknown grantee: expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.svc.Grant(ctx, "owner", "grantee", domain.ResourceFolder, "no-such", domain.AccessRead); err != domain.ErrResourceNotFound {
		t.Fatalf("unknown resource: expected ErrResourceNotFound, got %v", err)
	}

	_, err := f.svc.Grant(ctx, "owner", "grantee", domain.ResourceFolder, f.folderID, domain.AccessLevel("ADMIN"))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("bad level: expected ValidationError, got %v", err)
	}
}

func TestShareService_Revise(t *testing.T) {
	f := newShareFixture(t)
	share, _ := f.svc.Grant(context.Background(), "owner", "grantee", domain.ResourceFolder, f.folderID, domain.AccessRead)

	updated, err := f.svc.Revise(context.Background(), "owner", share.ID, domain.AccessWrite)
	if err != nil {
		t.Fatalf("revise failed: %v", err)
	}
	if updated.Level != domain.AccessWrite {
		t.Fatalf("level not updated: %s", updated.Level)
	}

	if _, err := f.svc.Revise(context.Background(), "grantee", share.ID, domain.AccessRead); err != domain.ErrForbidden {
		t.Fatalf("non-owner revise: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Revise(context.Background(), "owner", "no-such", domain.AccessRead); err != domain.ErrShareNotFound {
		t.Fatalf("unknown share: expected ErrShareNotFound, got %v", err)
	}
}

func TestShareService_Revoke(t *testing.T) {
	f := newShareFixture(t)
	share, _ := f.svc.Grant(context.Background(), "owner", "grantee", domain.ResourceFolder, f.folderID, domain.AccessRead)

	if err := f.svc.Revoke(context.Background(), "owner", share.ID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if len(f.shares.shares) != 0 {
		t.Fatalf("share not deleted")
	}
	if f.sink.lastType() != domain.EventFolderUnshared {
		t.Fatalf("expected %s event, got %q", domain.EventFolderUnshared, f.sink.lastType())
	}

	// deleting again is a silent success
	if err := f.svc.Revoke(context.Background(), "owner", share.ID); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}

func TestShareService_Revoke_NonOwner(t *testing.T) {
	f := newShareFixture(t)
	share, _ := f.svc.Grant(context.Background(), "owner", "grantee", domain.ResourceFolder, f.folderID, domain.AccessRead)

	if err := f.svc.Revoke(context.Background(), "grantee", share.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestShareService_ListForResource(t *testing.T) {
	f := newShareFixture(t)
	f.users.seed("stranger", "stranger", domain.RoleMember)
	_, _ = f.svc.Grant(context.Background(), "owner", "grantee", domain.ResourceFolder, f.folderID, domain.AccessRead)

	shares, err := f.svc.ListForResource(context.Background(), "owner", domain.ResourceFolder, f.folderID)
	if err != nil || len(shares) != 1 {
		t.Fatalf("owner list: %v (%d shares)", err, len(shares))
	}

	// an existing grantee may see the grant list too
	if _, err := f.svc.ListForResource(context.Background(), "grantee", domain.ResourceFolder, f.folderID); err != nil {
		t.Fatalf("grantee list: %v", err)
	}

	if _, err := f.svc.ListForResource(context.Background(), "stranger", domain.ResourceFolder, f.folderID); err != domain.ErrForbidden {
		t.Fatalf("stranger list: expected ErrForbidden, got %v", err)
	}
}

func TestShareService_ListForGrantee(t *testing.T) {
	f := newShareFixture(t)
	_, _ = f.svc.Grant(context.Background(), "owner", "grantee", domain.ResourceFolder, f.folderID, domain.AccessWrite)

	shares, err := f.svc.ListForGrantee(context.Background(), "grantee")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(shares) != 1 || shares[0].ResourceID != f.folderID {
		t.Fatalf("unexpected shares: %+v", shares)
	}
}
