package ctxkeys

import (
	"context"

	"github.com/templui/objectives/internal/config"
	"github.com/templui/objectives/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey       contextKey = "user"
	ProfileKey    contextKey = "profile"
	ConfigKey     contextKey = "config"
	CSRFTokenKey  contextKey = "csrf_token"
	AuthMethodKey contextKey = "auth_method"
	RequestIDKey  contextKey = "request_id"
)

// How the current request was authenticated.
const (
	AuthMethodCookie = "cookie"
	AuthMethodBearer = "bearer"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func Profile(ctx context.Context) *model.Profile {
	profile, _ := ctx.Value(ProfileKey).(*model.Profile)
	return profile
}

func WithProfile(ctx context.Context, profile *model.Profile) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

// AuthMethod returns AuthMethodCookie, AuthMethodBearer or "" for anonymous requests.
func AuthMethod(ctx context.Context) string {
	method, _ := ctx.Value(AuthMethodKey).(string)
	return method
}

func WithAuthMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, AuthMethodKey, method)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
