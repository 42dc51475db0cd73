package services

import (
	"errors"

	"github.com/rozgar/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseID(op, field, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, utils.E(utils.CodeInvalidArgument, op, "invalid "+field, err)
	}
	return id, nil
}

// notFoundOr maps a repository ErrNotFound to CodeNotFound and anything else
// to CodeInternal with the given message.
func notFoundOr(op, notFoundMsg, internalMsg string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, notFoundMsg, err)
	}
	return utils.E(utils.CodeInternal, op, internalMsg, err)
}

func totalPages(total, limit int64) int64 {
	if limit <= 0 || total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// normalizePage applies the listing defaults: page 1, limit 10, limit <= 100.
func normalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
