package property

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

type fakeServiceRepo struct {
	created   []CreateParams
	createErr error
	deleted   []string
	views     []string
	byID      map[string]Property
}

func (f *fakeServiceRepo) Create(ctx context.Context, params CreateParams) (Property, error) {
	if f.createErr != nil {
		return Property{}, f.createErr
	}
	f.created = append(f.created, params)
	return Property{ID: fmt.Sprintf("prop-%d", len(f.created)), Title: params.Title, Images: params.Images}, nil
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id string) (Property, error) {
	p, ok := f.byID[id]
	if !ok {
		return Property{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeServiceRepo) Search(ctx context.Context, filter Filter) ([]Property, error) {
	// The store never evaluates price bounds; return everything
	// matching the indexable predicates only.
	serverSide := filter
	serverSide.MinPrice = nil
	serverSide.MaxPrice = nil

	out := make([]Property, 0, len(f.byID))
	for _, p := range f.byID {
		if serverSide.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeServiceRepo) SetStatus(ctx context.Context, id string, status Status) (Property, error) {
	p, ok := f.byID[id]
	if !ok {
		return Property{}, ErrNotFound
	}
	p.Status = status
	f.byID[id] = p
	return p, nil
}

func (f *fakeServiceRepo) SetFeatured(ctx context.Context, id string, featured bool) (Property, error) {
	p, ok := f.byID[id]
	if !ok {
		return Property{}, ErrNotFound
	}
	p.Featured = featured
	f.byID[id] = p
	return p, nil
}

func (f *fakeServiceRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeServiceRepo) IncrementViewCount(ctx context.Context, id string) error {
	f.views = append(f.views, id)
	return nil
}

type fakeBlobStore struct {
	uploads []string
	removed []string
	failOn  string // filename substring that fails the upload
}

func (f *fakeBlobStore) Upload(ctx context.Context, path string, r io.Reader) (string, error) {
	if f.failOn != "" && strings.Contains(path, f.failOn) {
		return "", errors.New("storage unavailable")
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, path)
	return "https://cdn.example.com/" + path, nil
}

func (f *fakeBlobStore) Remove(ctx context.Context, path string) error {
	f.removed = append(f.removed, path)
	return nil
}

type recordingNotifier struct {
	successes []string
	errs      []string
}

func (n *recordingNotifier) Success(ctx context.Context, msg string) {
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(ctx context.Context, msg string) {
	n.errs = append(n.errs, msg)
}

func upload(name, content string) Upload {
	return Upload{Filename: name, Data: bytes.NewReader([]byte(content))}
}

func newTestService(repo *fakeServiceRepo, blobs *fakeBlobStore, n *recordingNotifier) *Service {
	svc := NewService(repo, blobs, n)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestPublish_UploadsThenWritesRecord(t *testing.T) {
	repo := &fakeServiceRepo{byID: map[string]Property{}}
	blobs := &fakeBlobStore{}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, blobs, notifier)

	prop, err := svc.Publish(context.Background(), PublishParams{
		Title:          "Modern Condo",
		Price:          450000,
		AgentID:        "agent-1",
		Specifications: Specifications{Bedrooms: 2, Bathrooms: 2, Sqft: 1100, PropertyType: TypeCondo},
		Images:         []Upload{upload("front.jpg", "a"), upload("kitchen.jpg", "b")},
		Video:          &Upload{Filename: "tour.mp4", Data: bytes.NewReader([]byte("v"))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPaths := []string{
		"properties/1700000000000_front.jpg",
		"properties/1700000000000_kitchen.jpg",
		"properties/videos/1700000000000_tour.mp4",
	}
	if len(blobs.uploads) != len(wantPaths) {
		t.Fatalf("expected %d uploads, got %d", len(wantPaths), len(blobs.uploads))
	}
	for i, want := range wantPaths {
		if blobs.uploads[i] != want {
			t.Errorf("upload %d: got %s want %s", i, blobs.uploads[i], want)
		}
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 record write, got %d", len(repo.created))
	}
	if len(prop.Images) != 2 || !strings.HasPrefix(prop.Images[0], "https://cdn.example.com/") {
		t.Fatalf("record must carry the upload URLs, got %v", prop.Images)
	}
	if repo.created[0].VideoURL == nil {
		t.Fatal("record must carry the video URL")
	}
	if len(notifier.successes) != 1 {
		t.Fatalf("expected one success notification, got %v", notifier.successes)
	}
}

func TestPublish_RecordWriteFailureCleansUploads(t *testing.T) {
	repo := &fakeServiceRepo{byID: map[string]Property{}, createErr: errors.New("write refused")}
	blobs := &fakeBlobStore{}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, blobs, notifier)

	_, err := svc.Publish(context.Background(), PublishParams{
		Title:          "Lakehouse",
		AgentID:        "agent-1",
		Specifications: Specifications{PropertyType: TypeHouse},
		Images:         []Upload{upload("a.jpg", "a"), upload("b.jpg", "b")},
	})
	if err == nil {
		t.Fatal("expected record write error")
	}

	if len(blobs.removed) != 2 {
		t.Fatalf("expected both uploads removed, got %v", blobs.removed)
	}
	for i, path := range blobs.uploads {
		if blobs.removed[i] != path {
			t.Errorf("removed %s, uploaded %s", blobs.removed[i], path)
		}
	}
	if len(notifier.errs) != 1 {
		t.Fatalf("expected one error notification, got %v", notifier.errs)
	}
}

func TestPublish_MidUploadFailureCleansEarlierUploads(t *testing.T) {
	repo := &fakeServiceRepo{byID: map[string]Property{}}
	blobs := &fakeBlobStore{failOn: "b.jpg"}
	svc := newTestService(repo, blobs, &recordingNotifier{})

	_, err := svc.Publish(context.Background(), PublishParams{
		Title:          "Lakehouse",
		AgentID:        "agent-1",
		Specifications: Specifications{PropertyType: TypeHouse},
		Images:         []Upload{upload("a.jpg", "a"), upload("b.jpg", "b"), upload("c.jpg", "c")},
	})
	if err == nil {
		t.Fatal("expected upload error")
	}

	if len(repo.created) != 0 {
		t.Fatal("record must not be written after an upload failure")
	}
	if len(blobs.removed) != 1 || !strings.Contains(blobs.removed[0], "a.jpg") {
		t.Fatalf("expected the earlier upload removed, got %v", blobs.removed)
	}
}

func TestChangeStatusAndRemoveNotify(t *testing.T) {
	repo := &fakeServiceRepo{byID: map[string]Property{
		"p1": {ID: "p1", Status: StatusAvailable},
	}}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, &fakeBlobStore{}, notifier)

	prop, err := svc.ChangeStatus(context.Background(), "p1", StatusSold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prop.Status != StatusSold {
		t.Fatalf("expected sold, got %s", prop.Status)
	}

	if err := svc.Remove(context.Background(), "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ChangeStatus(context.Background(), "p1", StatusPending); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if len(notifier.successes) != 2 || len(notifier.errs) != 1 {
		t.Fatalf("unexpected notifications: %v / %v", notifier.successes, notifier.errs)
	}
}

func TestList_AppliesPriceBoundsAfterSearch(t *testing.T) {
	repo := &fakeServiceRepo{byID: map[string]Property{
		"p1": sampleWithID("p1", 100000),
		"p2": sampleWithID("p2", 300000),
		"p3": sampleWithID("p3", 800000),
	}}
	svc := newTestService(repo, &fakeBlobStore{}, &recordingNotifier{})

	out, err := svc.List(context.Background(), Filter{MinPrice: floatPtr(200000), MaxPrice: floatPtr(500000)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p2" {
		t.Fatalf("expected only p2, got %+v", out)
	}
}

func sampleWithID(id string, price float64) Property {
	p := sample(price, "Miami", 2, false, TypeHouse)
	p.ID = id
	return p
}
