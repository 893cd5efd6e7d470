package publicapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/vivemedellin/go-vivemedellin/service/auth"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/service/redis"
	"github.com/vivemedellin/go-vivemedellin/util"
	"github.com/vivemedellin/go-vivemedellin/validate"
)

type AuthAPI struct {
	repos         *persist.Repositories
	validator     *validator.Validate
	sessionsCache *redis.Cache
}

// AuthResult is what register and login hand back: a bearer token and the
// user it authenticates.
type AuthResult struct {
	Token string       `json:"token"`
	User  persist.User `json:"user"`
}

// Register creates an account and logs it in.
func (api AuthAPI) Register(ctx context.Context, username, name, password string) (AuthResult, error) {
	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"username": validate.WithTag(username, "username"),
		"name":     validate.WithTag(name, "required,max=100"),
		"password": validate.WithTag(password, "required,min=8,max=256"),
	}); err != nil {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := api.repos.UserRepository.Create(ctx, persist.User{
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
		Roles:        []persist.Role{persist.RoleUser},
	})
	if err != nil {
		return AuthResult{}, err
	}

	return api.newSession(ctx, user)
}

// Login verifies credentials and mints a session token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (api AuthAPI) Login(ctx context.Context, username, password string) (AuthResult, error) {
	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"username": validate.WithTag(username, "required"),
		"password": validate.WithTag(password, "required"),
	}); err != nil {
		return AuthResult{}, err
	}

	user, err := api.repos.UserRepository.GetByUsername(ctx, username)
	if err != nil {
		if errors.As(err, &persist.ErrUserNotFound{}) {
			return AuthResult{}, auth.ErrBadCredentials
		}
		return AuthResult{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, auth.ErrBadCredentials
	}

	return api.newSession(ctx, user)
}

// Logout revokes the request's session. Anonymous calls succeed; there is
// nothing to revoke.
func (api AuthAPI) Logout(ctx context.Context) error {
	gc := util.GinContextFromContext(ctx)
	if err := auth.GetAuthErrorFromCtx(gc); err != nil {
		return nil
	}

	return auth.RevokeSession(ctx, api.sessionsCache, auth.GetSessionIDFromCtx(gc))
}

func (api AuthAPI) newSession(ctx context.Context, user persist.User) (AuthResult, error) {
	sessionID := persist.GenerateID()

	token, err := auth.GenerateAuthToken(ctx, user.ID, sessionID, user.Roles)
	if err != nil {
		return AuthResult{}, err
	}

	// The hash stays in the repository; callers never see it.
	user.PasswordHash = ""
	return AuthResult{Token: token, User: user}, nil
}
