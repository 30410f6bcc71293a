package logging

import (
	"fmt"
	"strings"
)

// GormWriter satisfies gorm's logger.Writer so SQL traces end up in zerolog.
type GormWriter struct{}

func (GormWriter) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	l := Component("db")
	if strings.Contains(msg, "SLOW SQL") {
		l.Warn().Msg(msg)
		return
	}
	if strings.Contains(strings.ToLower(msg), "error") {
		l.Error().Msg(msg)
		return
	}
	l.Debug().Msg(msg)
}
