package models

import (
	"time"

	"github.com/dmitrijs2005/snapline/internal/models"
)

// SnapRow is the snaps table row. StorageKey locates the image bytes in the
// object store and stays server-side.
type SnapRow struct {
	ID         string
	OwnerID    string
	Caption    string
	StorageKey string
	ImageURL   string
	CreatedAt  time.Time
}

// Public projects the row onto the wire-safe snap shape.
func (s *SnapRow) Public() models.Snap {
	return models.Snap{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Caption:   s.Caption,
		ImageURL:  s.ImageURL,
		CreatedAt: s.CreatedAt,
	}
}
