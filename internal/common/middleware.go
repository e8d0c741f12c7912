package common

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

var publicMethods = map[string]bool{
	"/grpc.health.v1.Health/Check": true,
}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok && actor.UserID != 0
}

// BearerToken extracts the token from an "authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", &ChatError{Code: CodeUnauthenticated, Message: "invalid auth header"}
	}
	return parts[1], nil
}

// AuthInterceptor validates the bearer token in incoming metadata and puts
// the resulting Actor on the context.
func AuthInterceptor(tokens *TokenManager) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, &ChatError{Code: CodeUnauthenticated, Message: "missing metadata"}
		}
		vals := md.Get("authorization")
		if len(vals) == 0 {
			return nil, ErrUnauthenticated
		}

		tokenString, err := BearerToken(vals[0])
		if err != nil {
			return nil, err
		}

		claims, err := tokens.ValidToken(tokenString)
		if err != nil {
			return nil, &ChatError{Code: CodeUnauthenticated, Message: "invalid or expired token"}
		}

		return handler(WithActor(ctx, claims.Actor()), req)
	}
}

// HTTPAuth authenticates gateway requests from the Authorization header or,
// for websocket upgrades from browsers, a token query parameter. onError
// writes the rejection.
func HTTPAuth(tokens *TokenManager, onError func(http.ResponseWriter, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.URL.Query().Get("token")
			if header := r.Header.Get("Authorization"); header != "" {
				var err error
				if tokenString, err = BearerToken(header); err != nil {
					onError(w, err)
					return
				}
			}
			if tokenString == "" {
				onError(w, ErrUnauthenticated)
				return
			}

			claims, err := tokens.ValidToken(tokenString)
			if err != nil {
				onError(w, &ChatError{Code: CodeUnauthenticated, Message: "invalid or expired token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), claims.Actor())))
		})
	}
}
