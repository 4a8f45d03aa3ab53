package property

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"
)

// Repository is the persistence access the service needs.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Property, error)
	GetByID(ctx context.Context, id string) (Property, error)
	Search(ctx context.Context, f Filter) ([]Property, error)
	SetStatus(ctx context.Context, id string, status Status) (Property, error)
	SetFeatured(ctx context.Context, id string, featured bool) (Property, error)
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
}

// BlobStore is the slice of the media store the service uses: upload a
// blob under a caller-chosen path and get a serving URL back, or remove
// it again.
type BlobStore interface {
	Upload(ctx context.Context, path string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

// Notifier delivers transient user-facing messages. Implementations
// are fire-and-forget; delivery failures never surface here.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Upload is one file attached to a listing submission.
type Upload struct {
	Filename string
	Data     io.Reader
}

// PublishParams is a listing submission: the record fields plus the
// media to upload ahead of the record write.
type PublishParams struct {
	Title          string
	Description    string
	Price          float64
	Location       Location
	Specifications Specifications
	Amenities      []string
	VirtualTourURL *string
	Featured       bool
	AgentID        string
	Images         []Upload
	Video          *Upload
}

// Service exposes business-level listing operations.
type Service struct {
	repo     Repository
	blobs    BlobStore
	notifier Notifier
	now      func() time.Time
}

// NewService builds a Service. notifier may be nil, in which case
// mutations complete silently.
func NewService(repo Repository, blobs BlobStore, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		blobs:    blobs,
		notifier: notifier,
		now:      time.Now,
	}
}

// List returns listings matching the full filter, newest first. The
// result is identical to what a View over the same filter exposes.
func (s *Service) List(ctx context.Context, f Filter) ([]Property, error) {
	props, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	return f.ApplyPriceBounds(props), nil
}

// Get fetches one listing.
func (s *Service) Get(ctx context.Context, id string) (Property, error) {
	return s.repo.GetByID(ctx, id)
}

// RecordView bumps the view counter for a listing detail read.
func (s *Service) RecordView(ctx context.Context, id string) error {
	return s.repo.IncrementViewCount(ctx, id)
}

// Publish uploads the submission's media one file at a time, then
// writes the listing record. If the record write fails, the uploaded
// objects are removed again best-effort before the error is returned.
func (s *Service) Publish(ctx context.Context, params PublishParams) (Property, error) {
	var uploaded []string

	cleanup := func() {
		for _, path := range uploaded {
			if err := s.blobs.Remove(context.WithoutCancel(ctx), path); err != nil {
				log.Printf("property: cleanup orphaned upload %s: %v", path, err)
			}
		}
	}

	imageURLs := make([]string, 0, len(params.Images))
	for _, img := range params.Images {
		path := fmt.Sprintf("properties/%d_%s", s.now().UnixMilli(), img.Filename)
		url, err := s.blobs.Upload(ctx, path, img.Data)
		if err != nil {
			cleanup()
			s.notifyError(ctx, "Failed to list property")
			return Property{}, fmt.Errorf("property: upload image %s: %w", img.Filename, err)
		}
		uploaded = append(uploaded, path)
		imageURLs = append(imageURLs, url)
	}

	var videoURL *string
	if params.Video != nil {
		path := fmt.Sprintf("properties/videos/%d_%s", s.now().UnixMilli(), params.Video.Filename)
		url, err := s.blobs.Upload(ctx, path, params.Video.Data)
		if err != nil {
			cleanup()
			s.notifyError(ctx, "Failed to list property")
			return Property{}, fmt.Errorf("property: upload video %s: %w", params.Video.Filename, err)
		}
		uploaded = append(uploaded, path)
		videoURL = &url
	}

	prop, err := s.repo.Create(ctx, CreateParams{
		Title:          params.Title,
		Description:    params.Description,
		Price:          params.Price,
		Location:       params.Location,
		Specifications: params.Specifications,
		Images:         imageURLs,
		VideoURL:       videoURL,
		VirtualTourURL: params.VirtualTourURL,
		Amenities:      params.Amenities,
		Featured:       params.Featured,
		AgentID:        params.AgentID,
	})
	if err != nil {
		cleanup()
		s.notifyError(ctx, "Failed to list property")
		return Property{}, err
	}

	s.notifySuccess(ctx, "Property listed successfully")
	return prop, nil
}

// ChangeStatus moves a listing between available, pending and sold.
func (s *Service) ChangeStatus(ctx context.Context, id string, status Status) (Property, error) {
	prop, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		s.notifyError(ctx, "Failed to update property status")
		return Property{}, err
	}
	s.notifySuccess(ctx, "Property status updated")
	return prop, nil
}

// ToggleFeatured flips the featured flag of a listing.
func (s *Service) ToggleFeatured(ctx context.Context, id string, featured bool) (Property, error) {
	prop, err := s.repo.SetFeatured(ctx, id, featured)
	if err != nil {
		s.notifyError(ctx, "Failed to update property")
		return Property{}, err
	}
	s.notifySuccess(ctx, "Property updated")
	return prop, nil
}

// Remove deletes a listing.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.notifyError(ctx, "Failed to delete property")
		return err
	}
	s.notifySuccess(ctx, "Property deleted")
	return nil
}

func (s *Service) notifySuccess(ctx context.Context, msg string) {
	if s.notifier != nil {
		s.notifier.Success(ctx, msg)
	}
}

func (s *Service) notifyError(ctx context.Context, msg string) {
	if s.notifier != nil {
		s.notifier.Error(ctx, msg)
	}
}
