package library

import (
	"context"

	"github.com/123ibadullah/MusicWebApplication/core/status"
	"github.com/123ibadullah/MusicWebApplication/logger"
)

// confirm runs a gateway call in the background after an optimistic local
// mutation. If the call fails, revert is executed under the cache lock to
// restore the pre-mutation state and a failure notice is emitted.
func (c *Cache) confirm(call func(context.Context) error, revert func(), failMsg string) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		if err := call(ctx); err != nil {
			logger.Warn("gateway confirmation failed, rolling back", logger.ErrorField(err))
			c.mu.Lock()
			revert()
			c.mu.Unlock()
			c.sendNotice(status.Fail(err, failMsg))
		}
	}()
}

// confirmOrResync is the playlist variant of confirm: playlist membership is
// server-authoritative, so instead of replaying an inverse mutation the whole
// playlist list is re-fetched on failure.
func (c *Cache) confirmOrResync(call func(context.Context) error, failMsg string) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		if err := call(ctx); err != nil {
			logger.Warn("playlist confirmation failed, re-fetching", logger.ErrorField(err))
			fetchCtx, fetchCancel := context.WithTimeout(context.Background(), gatewayTimeout)
			defer fetchCancel()
			if playlists, ferr := c.gw.ListPlaylists(fetchCtx); ferr == nil {
				c.mu.Lock()
				c.playlists = playlists
				c.mu.Unlock()
			}
			c.sendNotice(status.Fail(err, failMsg))
		}
	}()
}
