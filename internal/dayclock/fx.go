package dayclock

import (
	"time"

	"github.com/appfit/quotad/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("dayclock",
	fx.Provide(func(cfg config.Config) (Clock, error) {
		loc := time.UTC
		if cfg.Quota.Timezone != "" {
			parsed, err := time.LoadLocation(cfg.Quota.Timezone)
			if err != nil {
				return nil, err
			}
			loc = parsed
		}
		return NewSystemClock(loc), nil
	}),
)
