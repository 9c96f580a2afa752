package mock

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// ImageRepo is an in-memory port.ImageRepository. ConditionalUpdate honours
// the expected status the same way the SQL implementation does.
type ImageRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]model.Image

	// stored values
	ListOut []*model.Image

	// captured inputs
	Created      *model.Image
	Updates      []model.Image
	DeletedID    uuid.UUID
	ListLimit    int
	ListOffset   int
	ListedBefore map[model.ImageStatus]time.Time

	// errors
	GetErr        error
	CreateErr     error
	UpdateErr     error
	DeleteErr     error
	ListErr       error
	ListStatusErr error

	// call flags
	GetCalled    bool
	DeleteCalled bool
	ListCalled   bool
}

// NewImageRepo seeds the repository with copies of imgs.
func NewImageRepo(imgs ...*model.Image) *ImageRepo {
	r := &ImageRepo{records: make(map[uuid.UUID]model.Image)}
	for _, img := range imgs {
		r.records[img.ID] = *img
	}
	return r
}

// Record returns a copy of the stored record.
func (r *ImageRepo) Record(id uuid.UUID) (model.Image, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.records[id]
	return img, ok
}

func (r *ImageRepo) Create(ctx context.Context, img *model.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Created = img
	if r.CreateErr != nil {
		return r.CreateErr
	}
	if r.records == nil {
		r.records = make(map[uuid.UUID]model.Image)
	}
	r.records[img.ID] = *img
	return nil
}

func (r *ImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GetCalled = true
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	img, ok := r.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &img, nil
}

func (r *ImageRepo) ConditionalUpdate(ctx context.Context, img *model.Image, expected model.ImageStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return false, r.UpdateErr
	}
	cur, ok := r.records[img.ID]
	if !ok || cur.Status != expected {
		return false, nil
	}
	r.records[img.ID] = *img
	r.Updates = append(r.Updates, *img)
	return true, nil
}

func (r *ImageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeleteCalled = true
	r.DeletedID = id
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	delete(r.records, id)
	return nil
}

func (r *ImageRepo) List(ctx context.Context, limit, offset int) ([]*model.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ListCalled = true
	r.ListLimit = limit
	r.ListOffset = offset
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	return r.ListOut, nil
}

func (r *ImageRepo) ListByStatusBefore(ctx context.Context, status model.ImageStatus, before time.Time) ([]*model.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListedBefore == nil {
		r.ListedBefore = make(map[model.ImageStatus]time.Time)
	}
	r.ListedBefore[status] = before
	if r.ListStatusErr != nil {
		return nil, r.ListStatusErr
	}

	var out []*model.Image
	for _, img := range r.records {
		if img.Status == status && img.UpdatedAt.Before(before) {
			c := img
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}
