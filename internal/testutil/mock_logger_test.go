package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/logging"
)

func TestMockLoggerRecordsEntries(t *testing.T) {
	m := NewMockLogger()
	m.Info("hello", logging.String("k", "v"))
	m.Named("sub").Warn("window failed")

	msgs := m.Messages()
	assert.Len(t, msgs, 2)
	assert.Equal(t, "info", msgs[0].Level)
	assert.True(t, m.HasEntry("warn", "window failed"))
	assert.False(t, m.HasEntry("error", "window failed"))
}
