package controllers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/princinho/vidstream/models"
	"github.com/princinho/vidstream/utils"
)

type recordingStore struct {
	deleted   []string
	deleteErr error
}

func (s *recordingStore) Upload(ctx context.Context, localPath string, kind utils.ResourceKind, prefix string) (models.FileRef, error) {
	return models.FileRef{}, errors.New("not implemented")
}

func (s *recordingStore) Delete(ctx context.Context, publicID string, kind utils.ResourceKind) error {
	s.deleted = append(s.deleted, publicID)
	return s.deleteErr
}

func TestDiscardAssetsSkipsEmptyIDs(t *testing.T) {
	store := &recordingStore{}
	discardAssets(context.Background(), store,
		stagedAsset{ref: models.FileRef{PublicID: "videos/a"}, kind: utils.ResourceVideo},
		stagedAsset{ref: models.FileRef{}, kind: utils.ResourceImage},
		stagedAsset{ref: models.FileRef{PublicID: "images/b"}, kind: utils.ResourceImage},
	)
	assert.Equal(t, []string{"videos/a", "images/b"}, store.deleted)
}

func TestDiscardAssetsSwallowsDeleteErrors(t *testing.T) {
	store := &recordingStore{deleteErr: errors.New("remote unavailable")}
	discardAssets(context.Background(), store,
		stagedAsset{ref: models.FileRef{PublicID: "images/a"}, kind: utils.ResourceImage},
		stagedAsset{ref: models.FileRef{PublicID: "images/b"}, kind: utils.ResourceImage},
	)
	assert.Equal(t, []string{"images/a", "images/b"}, store.deleted)
}
