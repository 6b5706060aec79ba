package app

import (
	"context"
	"fmt"

	"linkhut/internal/linkhut"
	"linkhut/internal/logger"
	"linkhut/internal/models"
	apperr "linkhut/internal/pkg/errors"
)

// RenameTag renames oldTag to newTag across all bookmarks.
func (a *App) RenameTag(ctx context.Context, oldTag, newTag string) error {
	if _, err := models.ValidateTagName(oldTag); err != nil {
		return err
	}
	if _, err := models.ValidateTagName(newTag); err != nil {
		return err
	}

	result, err := a.LinkhutClient.RenameTag(ctx, oldTag, newTag)
	if err != nil {
		return err
	}
	if result.ResultCode != linkhut.ResultDone {
		a.Logger.Error("failed to rename tag",
			logger.String("old", oldTag),
			logger.String("new", newTag),
			logger.String("result_code", result.ResultCode),
		)
		return fmt.Errorf("%w: failed to rename tag '%s' to '%s', result code: %s", apperr.ErrRequest, oldTag, newTag, result.ResultCode)
	}
	a.Logger.Info("tag renamed", logger.String("old", oldTag), logger.String("new", newTag))
	return nil
}

// DeleteTag removes tag from all bookmarks.
func (a *App) DeleteTag(ctx context.Context, tag string) error {
	if _, err := models.ValidateTagName(tag); err != nil {
		return err
	}

	result, err := a.LinkhutClient.DeleteTag(ctx, tag)
	if err != nil {
		return err
	}
	if result.ResultCode != linkhut.ResultDone {
		a.Logger.Error("failed to delete tag", logger.String("tag", tag), logger.String("result_code", result.ResultCode))
		return fmt.Errorf("%w: failed to delete tag '%s', tag may not exist, result code: %s", apperr.ErrRequest, tag, result.ResultCode)
	}
	a.Logger.Debug("tag deleted", logger.String("tag", tag))
	return nil
}
