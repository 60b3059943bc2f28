package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightOverrides(t *testing.T) {
	cfg := Config{SourceWeights: "diffusiondb=5, flickr=0.5, bad, neg=-1, nan=x"}

	overrides := cfg.weightOverrides()
	assert.Equal(t, 5.0, overrides["diffusiondb"])
	assert.Equal(t, 0.5, overrides["flickr"])
	assert.NotContains(t, overrides, "bad")
	assert.NotContains(t, overrides, "neg")
	assert.NotContains(t, overrides, "nan")
}

func TestAllowedHostSet(t *testing.T) {
	cfg := Config{AllowedHosts: "Datasets-Server.huggingface.co, images.test ,"}

	hosts := cfg.allowedHostSet()
	assert.True(t, hosts["datasets-server.huggingface.co"])
	assert.True(t, hosts["images.test"])
	assert.False(t, hosts[""])
}
