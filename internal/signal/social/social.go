// Package social fetches public follower metrics for a project's social
// handle. Follower count feeds the startup social-velocity score.
package social

import (
	"context"
	"net/url"
	"strings"

	"fundflow/internal/apperrors"
	"fundflow/internal/config"
	"fundflow/internal/logging"
	"fundflow/internal/signal"
)

// SourceName labels provenance entries contributed by this adapter
const SourceName = "Twitter"

// Adapter queries the social-metrics API
type Adapter struct {
	client *signal.Client
	cfg    config.SocialSourceConfig
	logger *logging.Logger
}

// New builds a social adapter
func New(client *signal.Client, cfg config.SocialSourceConfig, logger *logging.Logger) *Adapter {
	return &Adapter{client: client, cfg: cfg, logger: logger}
}

// Profile is the public metric set for one handle
type Profile struct {
	ID        string
	Followers int
	Following int
	Tweets    int
	Listed    int
	Verified  bool
}

type userPayload struct {
	Data struct {
		ID            string `json:"id"`
		Verified      bool   `json:"verified"`
		PublicMetrics struct {
			Followers int `json:"followers_count"`
			Following int `json:"following_count"`
			Tweets    int `json:"tweet_count"`
			Listed    int `json:"listed_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// UserMetrics fetches public metrics for a handle. Without a bearer token
// the source is unavailable and the result is no-data.
func (a *Adapter) UserMetrics(ctx context.Context, handle string) signal.Result[Profile] {
	if a.cfg.BearerToken == "" {
		return signal.NoData[Profile](SourceName)
	}

	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return signal.NoData[Profile](SourceName)
	}

	var payload userPayload
	headers := map[string]string{"Authorization": "Bearer " + a.cfg.BearerToken}
	query := url.Values{"user.fields": {"public_metrics,created_at,verified"}}
	err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/users/by/username/"+url.PathEscape(handle), query, headers, &payload)
	if err != nil {
		if apperrors.HasCode(err, apperrors.RateLimited) {
			a.logger.Warn("Social metrics rate limited", map[string]interface{}{"handle": handle})
		} else {
			a.logger.Debug("Social metrics fetch failed", map[string]interface{}{
				"handle": handle,
				"error":  err.Error(),
			})
		}
		return signal.Failure[Profile](SourceName, err)
	}
	if payload.Data.ID == "" {
		return signal.NoData[Profile](SourceName)
	}

	m := payload.Data.PublicMetrics
	return signal.Data(SourceName, Profile{
		ID:        payload.Data.ID,
		Followers: m.Followers,
		Following: m.Following,
		Tweets:    m.Tweets,
		Listed:    m.Listed,
		Verified:  payload.Data.Verified,
	})
}
