package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupGalleryServiceTest(t *testing.T) (*GalleryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:gallery_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.GalleryImage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewGalleryService(repository.NewGalleryImageRepository(db), nil)
	return svc, db
}

func seedGalleryImage(t *testing.T, db *gorm.DB, title string, eventID *string, sortOrder int) {
	t.Helper()
	now := time.Now()
	image := &models.GalleryImage{
		Title:     title,
		URL:       "/uploads/gallery/" + title + ".jpg",
		EventID:   eventID,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(image).Error; err != nil {
		t.Fatalf("create gallery image failed: %v", err)
	}
}

func TestListImagesFiltersByEvent(t *testing.T) {
	svc, db := setupGalleryServiceTest(t)
	gala := "evt-gala"
	seedGalleryImage(t, db, "curtain-call", &gala, 1)
	seedGalleryImage(t, db, "rehearsal", &gala, 2)
	seedGalleryImage(t, db, "foyer", nil, 1)

	all, total, err := svc.ListImages("", 1, 20)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("expected 3 images, got total=%d len=%d", total, len(all))
	}

	scoped, total, err := svc.ListImages(gala, 1, 20)
	if err != nil {
		t.Fatalf("list scoped failed: %v", err)
	}
	if total != 2 || len(scoped) != 2 {
		t.Fatalf("expected 2 event images, got total=%d len=%d", total, len(scoped))
	}
	for _, image := range scoped {
		if image.EventID == nil || *image.EventID != gala {
			t.Fatalf("image outside event filter: %+v", image)
		}
	}

	none, total, err := svc.ListImages("evt-missing", 1, 20)
	if err != nil {
		t.Fatalf("list missing event failed: %v", err)
	}
	if total != 0 || len(none) != 0 {
		t.Fatalf("expected empty page, got total=%d len=%d", total, len(none))
	}
}

func TestUpdateAndDeleteImage(t *testing.T) {
	svc, db := setupGalleryServiceTest(t)
	seedGalleryImage(t, db, "opening-night", nil, 5)

	var stored models.GalleryImage
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("reload image failed: %v", err)
	}

	updated, err := svc.UpdateImage(stored.ID, UpdateImageInput{Title: "Opening Night", SortOrder: 1})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Opening Night" || updated.SortOrder != 1 {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := svc.DeleteImage(stored.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.DeleteImage(stored.ID); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("error = %v, want ErrGalleryNotFound", err)
	}
}
