package services

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/slateroom/slateroom-backend/internal/pkg/errors"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

// TokenService validates bearer tokens issued by the identity provider and
// attaches the caller's identity to the request context. Token issuance and
// account management live outside this service.
type TokenService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type tokenService struct {
	log    *logger.Logger
	secret []byte
}

func NewTokenService(log *logger.Logger, secretKey string) TokenService {
	serviceLog := log.With("service", "TokenService")
	return &tokenService{log: serviceLog, secret: []byte(secretKey)}
}

func (ts *tokenService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, pkgerrors.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, pkgerrors.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject claim", pkgerrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a uuid", pkgerrors.ErrUnauthorized)
	}

	rd := &ctxutil.RequestData{TokenString: tokenString, UserID: userID}
	return ctxutil.WithRequestData(ctx, rd), nil
}
