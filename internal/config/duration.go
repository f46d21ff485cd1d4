package config

import (
	"time"

	"github.com/falbue/todo-denzl/internal/utils"
)

// durationSeconds parses env as time.Duration: "10s", "5m" or bare number =
// seconds (e.g. "10" -> 10s).
type durationSeconds time.Duration

// SetValue implements cleanenv.Setter.
func (d *durationSeconds) SetValue(data string) error {
	v, err := utils.ParseDurationEnv(data)
	if err != nil {
		return err
	}
	*d = durationSeconds(v)
	return nil
}

func (d durationSeconds) Duration() time.Duration { return time.Duration(d) }
