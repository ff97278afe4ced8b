package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "imu_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
# comment line

UDP_PORT=9870
WINDOW_SECONDS=10
CHANNEL=gyro
WEB_SERVER_PORT=9090
WEB_PUSH_INTERVAL=50
CONSOLE_LOG_INTERVAL=250
MQTT_BROKER=tcp://broker:1883
MQTT_CLIENT_ID_BRIDGE=bridge-test
TOPIC_SAMPLES=imu/test
SENDER_TARGET=10.0.0.1:9870
SENDER_INTERVAL=20
IMU_USE_MOCK=true
IMU_I2C_BUS=/dev/i2c-1
IMU_I2C_ADDR=0x69
IMU_ACCEL_RANGE=2
IMU_GYRO_RANGE=3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9870, cfg.UDPPort)
	assert.Equal(t, 10, cfg.WindowSeconds)
	assert.Equal(t, "gyro", cfg.Channel)
	assert.Equal(t, 9090, cfg.WebServerPort)
	assert.Equal(t, 50, cfg.WebPushInterval)
	assert.Equal(t, 250, cfg.ConsoleLogInterval)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
	assert.Equal(t, "bridge-test", cfg.MQTTClientIDBridge)
	assert.Equal(t, "imu/test", cfg.TopicSamples)
	assert.Equal(t, "10.0.0.1:9870", cfg.SenderTarget)
	assert.Equal(t, 20, cfg.SenderInterval)
	assert.True(t, cfg.IMUUseMock)
	assert.Equal(t, "/dev/i2c-1", cfg.IMUI2CBus)
	assert.Equal(t, uint16(0x69), cfg.IMUI2CAddr)
	assert.Equal(t, byte(2), cfg.IMUAccelRange)
	assert.Equal(t, byte(3), cfg.IMUGyroRange)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "UDP_PORT=9870\nWINDOW_SECONDS=10\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acc", cfg.Channel)
	assert.Equal(t, 8080, cfg.WebServerPort)
	assert.Equal(t, 100, cfg.WebPushInterval)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, uint16(0x68), cfg.IMUI2CAddr)
	assert.False(t, cfg.IMUUseMock)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"missing UDP_PORT":        "WINDOW_SECONDS=10\n",
		"missing WINDOW_SECONDS":  "UDP_PORT=9870\n",
		"unknown key":             "UDP_PORT=9870\nWINDOW_SECONDS=10\nFOO=bar\n",
		"malformed line":          "UDP_PORT=9870\nWINDOW_SECONDS=10\nnot a pair\n",
		"non-numeric port":        "UDP_PORT=abc\nWINDOW_SECONDS=10\n",
		"zero window":             "UDP_PORT=9870\nWINDOW_SECONDS=0\n",
		"accel range out of band": "UDP_PORT=9870\nWINDOW_SECONDS=10\nIMU_ACCEL_RANGE=4\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
