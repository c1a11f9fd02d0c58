// Package app wires the library together for the demo binary: env
// config, a websocket monitor connection, and a subscriber that logs
// every notification the core renders.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	notify "github.com/blocknative/notify-go"
	"github.com/blocknative/notify-go/internal/wsclient"
)

func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	client, err := wsclient.Dial(ctx, wsclient.Config{
		URL:       cfg.MonitorWSURL,
		DappID:    cfg.DappID,
		NetworkID: cfg.NetworkID,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("connect monitor: %w", err)
	}
	defer client.Close()

	n := notify.New(notify.Config{
		Client: client,
		Logger: log,
	})

	unsubscribe := n.Notifications().Subscribe(func(list []notify.NotificationRecord) {
		for _, rec := range list {
			log.WithFields(logrus.Fields{
				"key":  rec.Key,
				"type": rec.Type,
			}).Info(rec.Message)
		}
	})
	defer unsubscribe()

	if cfg.WatchHash != "" {
		if _, err := n.Hash(cfg.WatchHash, ""); err != nil {
			return fmt.Errorf("watch %s: %w", cfg.WatchHash, err)
		}
		log.WithField("hash", cfg.WatchHash).Info("tracking transaction")
	}

	<-ctx.Done()
	return ctx.Err()
}
