package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/snapline/internal/models"
	smodels "github.com/dmitrijs2005/snapline/internal/server/models"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/snapline/internal/server/storage"
)

var ErrorEmptyImage = errors.New("empty image")

type SnapService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
}

func NewSnapService(db *sql.DB, rm repomanager.RepositoryManager, store storage.ObjectStore) *SnapService {
	return &SnapService{db: db, repomanager: rm, store: store}
}

// Upload stores the image bytes in the object store first and records the
// snap row second. A failed insert leaves an orphaned object, which is
// preferable to a row pointing at nothing.
func (s *SnapService) Upload(ctx context.Context, ownerID, caption string, image []byte, contentType string) (models.Snap, error) {

	if len(image) == 0 {
		return models.Snap{}, ErrorEmptyImage
	}

	key := storage.RandomStorageKey()

	url, err := s.store.Upload(ctx, key, image, contentType)
	if err != nil {
		return models.Snap{}, err
	}

	row := &smodels.SnapRow{
		OwnerID:    ownerID,
		Caption:    caption,
		StorageKey: key,
		ImageURL:   url,
	}
	if _, err := s.repomanager.Snaps(s.db).Create(ctx, row); err != nil {
		return models.Snap{}, err
	}

	return row.Public(), nil
}

// GetSnap returns the wire shape of a stored snap.
func (s *SnapService) GetSnap(ctx context.Context, id string) (models.Snap, error) {
	row, err := s.repomanager.Snaps(s.db).GetByID(ctx, id)
	if err != nil {
		return models.Snap{}, err
	}
	return row.Public(), nil
}
