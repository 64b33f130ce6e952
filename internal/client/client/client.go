package client

import (
	"context"

	"github.com/mergington/signup/internal/client/models"
)

// Client is the activities API as seen by the controller. Calls that need
// a teacher session take the bearer token explicitly; the client keeps no
// session of its own.
type Client interface {
	ListActivities(ctx context.Context) (models.ActivityList, error)
	Signup(ctx context.Context, token, activity, email string) (string, error)
	Unregister(ctx context.Context, token, activity, email string) (string, error)
	Login(ctx context.Context, username, password string) (models.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}
