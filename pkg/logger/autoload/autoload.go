// Package autoload initializes the global logger from LOG_* environment
// variables as an import side effect.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/pkg/logger"
)

func init() {
	conf := *logx.DefaultConfig
	if err := envconfig.Process("log", &conf); err != nil {
		conf = *logx.DefaultConfig
	}
	logx.Init(conf)
}
