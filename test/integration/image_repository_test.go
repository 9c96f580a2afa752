package integration

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

func newPending(name string) *model.Image {
	staged := "/tmp/" + name
	return &model.Image{
		ID:           uuid.NewUUID(),
		Status:       model.ImageStatusPending,
		OriginalName: name,
		StagedPath:   &staged,
	}
}

func TestImageRepository_CreateAndGet(t *testing.T) {
	tdb := setupDB(t)
	repo := mariadb.NewImageRepository(tdb.DB)
	ctx := context.Background()

	img := newPending("cat.png")
	if err := repo.Create(ctx, img); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.ImageStatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.OriginalName != "cat.png" {
		t.Errorf("original name = %q, want cat.png", got.OriginalName)
	}
	if got.StagedPath == nil || *got.StagedPath != "/tmp/cat.png" {
		t.Errorf("staged path = %v, want /tmp/cat.png", got.StagedPath)
	}
	if got.StoredFile != nil {
		t.Errorf("stored file = %v, want nil", *got.StoredFile)
	}

	if _, err := repo.GetByID(ctx, uuid.NewUUID()); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID unknown: err = %v, want sql.ErrNoRows", err)
	}
}

func TestImageRepository_ConditionalUpdate_SingleWinner(t *testing.T) {
	tdb := setupDB(t)
	repo := mariadb.NewImageRepository(tdb.DB)
	ctx := context.Background()

	img := newPending("race.png")
	if err := repo.Create(ctx, img); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const racers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claim := *img
			claim.Status = model.ImageStatusProcessing
			ok, err := repo.ConditionalUpdate(ctx, &claim, model.ImageStatusPending)
			if err != nil {
				t.Errorf("ConditionalUpdate: %v", err)
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("claims won = %d, want exactly 1", wins)
	}

	got, err := repo.GetByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.ImageStatusProcessing {
		t.Errorf("status = %q, want processing", got.Status)
	}
}

func TestImageRepository_ConditionalUpdate_Complete(t *testing.T) {
	tdb := setupDB(t)
	repo := mariadb.NewImageRepository(tdb.DB)
	ctx := context.Background()

	img := newPending("done.png")
	if err := repo.Create(ctx, img); err != nil {
		t.Fatalf("Create: %v", err)
	}
	img.Status = model.ImageStatusProcessing
	if ok, err := repo.ConditionalUpdate(ctx, img, model.ImageStatusPending); err != nil || !ok {
		t.Fatalf("claim: ok=%v err=%v", ok, err)
	}

	stored := img.ID.String() + "/done.webp"
	img.Status = model.ImageStatusCompleted
	img.StagedPath = nil
	img.StoredFile = &stored
	img.Metadata = model.Metadata{SourceWidth: 800, SourceHeight: 600, Width: 800, Height: 600, SizeBytes: 1234, MimeType: "image/webp"}
	if ok, err := repo.ConditionalUpdate(ctx, img, model.ImageStatusProcessing); err != nil || !ok {
		t.Fatalf("complete: ok=%v err=%v", ok, err)
	}

	got, err := repo.GetByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.ImageStatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.StoredFile == nil || *got.StoredFile != stored {
		t.Errorf("stored file = %v, want %q", got.StoredFile, stored)
	}
	if got.Metadata != img.Metadata {
		t.Errorf("metadata = %+v, want %+v", got.Metadata, img.Metadata)
	}

	// completed is terminal: a stale writer expecting processing loses
	img.Status = model.ImageStatusFailed
	img.StoredFile = nil
	if ok, err := repo.ConditionalUpdate(ctx, img, model.ImageStatusProcessing); err != nil || ok {
		t.Errorf("stale update: ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestImageRepository_ListAndDelete(t *testing.T) {
	tdb := setupDB(t)
	repo := mariadb.NewImageRepository(tdb.DB)
	ctx := context.Background()

	first := newPending("first.png")
	second := newPending("second.png")
	for _, img := range []*model.Image{first, second} {
		if err := repo.Create(ctx, img); err != nil {
			t.Fatalf("Create: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	list, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("List order wrong: got %d items", len(list))
	}

	page, err := repo.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("List page: %v", err)
	}
	if len(page) != 1 || page[0].ID != first.ID {
		t.Errorf("second page = %v, want first record", page)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second Delete: err = %v, want sql.ErrNoRows", err)
	}
}

func TestImageRepository_ListByStatusBefore(t *testing.T) {
	tdb := setupDB(t)
	repo := mariadb.NewImageRepository(tdb.DB)
	ctx := context.Background()

	stale := newPending("stale.png")
	if err := repo.Create(ctx, stale); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cutoff := time.Now().Add(time.Second)

	list, err := repo.ListByStatusBefore(ctx, model.ImageStatusPending, cutoff)
	if err != nil {
		t.Fatalf("ListByStatusBefore: %v", err)
	}
	if len(list) != 1 || list[0].ID != stale.ID {
		t.Fatalf("got %d records, want the stale one", len(list))
	}

	list, err = repo.ListByStatusBefore(ctx, model.ImageStatusProcessing, cutoff)
	if err != nil {
		t.Fatalf("ListByStatusBefore processing: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("processing records = %d, want 0", len(list))
	}
}
