package wfmsession

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"wfm-shifts-connector/config"
	wfmclient "wfm-shifts-connector/lib/wfm/client"
)

// Provider hands out live WFM sessions. Logging on is expensive, so
// sessions are cached per endpoint and reused until their TTL lapses.
// Concurrent refreshes for the same endpoint are tolerated: each caller
// gets a valid session and the last refresh wins the cache slot.
type Provider interface {
	Get(ctx context.Context, endpoint string) (jsession string, err error)
	Invalidate(endpoint string)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		client: wfmclient.Instance,
		ttl:    time.Duration(config.Conf.Wfm.SessionTTLMinutes) * time.Minute,
		now:    time.Now,
	}
}

type session struct {
	jsession string
	expires  time.Time
}

type impl struct {
	client   wfmclient.Provider
	ttl      time.Duration
	now      func() time.Time
	sessions sync.Map
}

func (i *impl) Get(ctx context.Context, endpoint string) (string, error) {
	if v, ok := i.sessions.Load(endpoint); ok {
		cached := v.(session)
		if i.now().Before(cached.expires) {
			return cached.jsession, nil
		}
	}
	return i.refresh(ctx, endpoint)
}

func (i *impl) Invalidate(endpoint string) {
	i.sessions.Delete(endpoint)
}

func (i *impl) refresh(ctx context.Context, endpoint string) (string, error) {
	logger := log.WithField("wfm_endpoint", endpoint)

	token, err := i.client.RequestToken(ctx)
	if err != nil {
		return "", err
	}
	logon, err := i.client.Logon(ctx, endpoint, token.AccessToken)
	if err != nil {
		return "", err
	}
	i.sessions.Store(endpoint, session{
		jsession: logon.Jsession,
		expires:  i.now().Add(i.ttl),
	})
	logger.Info("established new WFM session")
	return logon.Jsession, nil
}
