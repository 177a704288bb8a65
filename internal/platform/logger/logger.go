package logger

import (
	"log"

	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

func Init(debug bool) {
	var (
		base *zap.Logger
		err  error
	)
	if debug {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	sugar = base.Sugar()
}

// L returns the process logger, initializing a no-op fallback for tests
// that never call Init.
func L() *zap.SugaredLogger {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return sugar
}

func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
