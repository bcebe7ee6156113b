package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func (svc *LedgerService) StartWebhookSubscription(ctx context.Context, url string) {
	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	events, unsubscribe := svc.SubscribeLedgerEvents()
	defer unsubscribe()

	client := &http.Client{Timeout: 10 * time.Second}
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			svc.postToWebhook(ctx, client, url, event)
		}
	}
}

func (svc *LedgerService) postToWebhook(ctx context.Context, client *http.Client, url string, event LedgerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	expontentialBackoff := backoff.NewExponentialBackOff()
	expontentialBackoff.MaxInterval = time.Second * 10
	expontentialBackoff.MaxElapsedTime = time.Minute

	err = backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			msg, _ := io.ReadAll(resp.Body)
			err = fmt.Errorf("webhook status code was %d, body: %s", resp.StatusCode, msg)
			if resp.StatusCode < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, backoff.WithContext(expontentialBackoff, ctx))
	if err != nil {
		svc.Logger.Errorf("webhook delivery of event %s failed: %v", event.ID, err)
	}
}
