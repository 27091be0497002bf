package controllers

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/princinho/vidstream/apperror"
	"github.com/princinho/vidstream/models"
	"github.com/princinho/vidstream/utils"
)

// stageAndUpload writes a multipart file to a temp path, pushes it to the
// media store and removes the staged copy. A failed upload aborts the
// enclosing operation.
func stageAndUpload(c *gin.Context, store utils.MediaStore, fh *multipart.FileHeader, kind utils.ResourceKind, prefix string) (models.FileRef, error) {
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fh.Filename)))
	if err := c.SaveUploadedFile(fh, tmp); err != nil {
		return models.FileRef{}, apperror.Internal("failed to stage upload", err)
	}
	defer os.Remove(tmp)

	ref, err := store.Upload(c.Request.Context(), tmp, kind, prefix)
	if err != nil {
		return models.FileRef{}, apperror.Internal("upload failed", err)
	}
	return ref, nil
}

type stagedAsset struct {
	ref  models.FileRef
	kind utils.ResourceKind
}

// discardAssets best-effort deletes assets already pushed to the media store
// after a failed database write. Delete failures are logged, never returned.
func discardAssets(ctx context.Context, store utils.MediaStore, assets ...stagedAsset) {
	for _, a := range assets {
		if a.ref.PublicID == "" {
			continue
		}
		if err := store.Delete(ctx, a.ref.PublicID, a.kind); err != nil {
			log.Printf("failed to clean up %s asset %s: %v", a.kind, a.ref.PublicID, err)
		}
	}
}
