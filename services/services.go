// Package services holds the business rules between the HTTP layer and the repositories.
package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quisine/models"
	"quisine/repository"
	"quisine/storage"
	"quisine/utils"
)

func parseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, utils.Invalid("Invalid %s id", what)
	}
	return id, nil
}

// notFound converts the repository miss into a client facing error and passes anything
// else through.
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound(msg)
	}
	return err
}

// uploadOptional stores img when present and returns its reference, or "" when img is nil.
func uploadOptional(ctx context.Context, images storage.ImageStore, folder string, img *models.ImageUpload) (string, error) {
	if img == nil {
		return "", nil
	}
	ref, err := images.Upload(ctx, folder, *img)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrUnsupported) {
			return "", utils.Invalid("%s", err.Error())
		}
		return "", err
	}
	return ref, nil
}

// discardImage removes ref best-effort. Only references the store produced are touched.
func discardImage(images storage.ImageStore, ref string) {
	if ref == "" || !images.Owns(ref) {
		return
	}
	if err := images.Remove(context.Background(), ref); err != nil {
		utils.LogWarn("failed to remove image", map[string]interface{}{"ref": ref, "error": err.Error()})
	}
}
