package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	instance *zap.SugaredLogger
	once     sync.Once
)

type Config struct {
	Development bool
	Level       string // debug, info, warn, error; empty keeps the preset default
}

func New(cfg Config) (*zap.SugaredLogger, error) {
	var err error
	once.Do(func() {
		zc := zap.NewProductionConfig()
		if cfg.Development {
			zc = zap.NewDevelopmentConfig()
		}
		if cfg.Level != "" {
			var lvl zap.AtomicLevel
			if lvl, err = zap.ParseAtomicLevel(cfg.Level); err != nil {
				return
			}
			zc.Level = lvl
		}
		var l *zap.Logger
		if l, err = zc.Build(); err != nil {
			return
		}
		instance = l.Sugar()
	})
	return instance, err
}
