package grcAuth

import (
	"context"
)

// UpdateRefreshToken exchanges a live refresh token for a fresh session and
// refresh pair. The account is re-read so a token outlives neither the
// account nor its directory record.
func (e *Engine) UpdateRefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if e == nil || e.directory == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwtManager.ParseRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, ErrRefreshInvalid
	}

	acct, err := e.directory.GetAccountByID(ctx, claims.UID)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		e.metricInc(MetricRefreshFailure)
		return nil, ErrRefreshInvalid
	}

	access, refresh, err := e.issueTokens(acct)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		UID:          acct.ID,
	}, nil
}

// ParseAccessToken validates a session token and returns its subject. Used
// by transport adapters to authenticate per-request.
func (e *Engine) ParseAccessToken(tokenStr string) (string, error) {
	if e == nil || e.jwtManager == nil {
		return "", ErrEngineNotReady
	}
	claims, err := e.jwtManager.ParseSession(tokenStr)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return claims.UID, nil
}
