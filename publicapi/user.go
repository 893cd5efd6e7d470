package publicapi

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/validate"
)

type UserAPI struct {
	repos     *persist.Repositories
	validator *validator.Validate
}

func (api UserAPI) GetUserByID(ctx context.Context, userID persist.DBID) (persist.User, error) {
	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"userID": validate.WithTag(userID, "required"),
	}); err != nil {
		return persist.User{}, err
	}

	return api.repos.UserRepository.GetByID(ctx, userID)
}

// GetViewer returns the user behind the current session.
func (api UserAPI) GetViewer(ctx context.Context) (persist.User, error) {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return persist.User{}, err
	}

	return api.repos.UserRepository.GetByID(ctx, userID)
}
