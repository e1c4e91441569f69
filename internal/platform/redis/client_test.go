package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kontra/internal/platform/config"
)

func TestNew_DisabledWithoutURL(t *testing.T) {
	client, err := New(config.RedisConfig{})

	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNew_RejectsMalformedURL(t *testing.T) {
	_, err := New(config.RedisConfig{URL: "not-a-redis-url"})

	assert.Error(t, err)
}

func TestZeroSettingsFallBackToCacheDefaults(t *testing.T) {
	assert.Equal(t, defaultPoolSize, orDefault(0, defaultPoolSize))
	assert.Equal(t, 25, orDefault(25, defaultPoolSize))
	assert.Equal(t, defaultOpTimeout, orDefaultDuration(0, defaultOpTimeout))
	assert.Equal(t, time.Second, orDefaultDuration(time.Second, defaultOpTimeout))
}
