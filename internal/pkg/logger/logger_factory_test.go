//go:build unit
// +build unit

package logger

import (
	"path/filepath"
	"testing"

	"code_runner_service/internal/pkg/config"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name          string
		settings      *config.LoggerSettings
		expectedError bool
	}{
		{
			name: "console logger",
			settings: &config.LoggerSettings{
				LogLevel: config.LogLevelInfo,
				LogType:  config.LogTypeConsole,
			},
			expectedError: false,
		},
		{
			name: "file logger",
			settings: &config.LoggerSettings{
				LogLevel:   config.LogLevelDebug,
				LogType:    config.LogTypeFile,
				FilePath:   filepath.Join(t.TempDir(), "runner.log"),
				MaxSize:    10,
				MaxBackups: 3,
				MaxAge:     7,
			},
			expectedError: false,
		},
		{
			name: "invalid log level",
			settings: &config.LoggerSettings{
				LogLevel: "verbose",
				LogType:  config.LogTypeConsole,
			},
			expectedError: true,
		},
		{
			name: "file logger without path",
			settings: &config.LoggerSettings{
				LogLevel: config.LogLevelInfo,
				LogType:  config.LogTypeFile,
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := newLogger(tt.settings)
			if tt.expectedError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)
			log.Info("logger initialized for ", tt.name)
		})
	}
}
