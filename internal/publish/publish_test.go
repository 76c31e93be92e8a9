package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Endpoint: "s3.example.com"}.Enabled())
	assert.True(t, Config{Endpoint: "s3.example.com", Bucket: "releases"}.Enabled())
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, Config{}.Validate())

	err := Config{Endpoint: "s3.example.com", Bucket: "releases"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RELFORGE_S3_ACCESS_KEY")

	err = Config{Endpoint: "https://s3.example.com", Bucket: "releases", AccessKey: "a", SecretKey: "b"}.Validate()
	require.Error(t, err)

	require.NoError(t, Config{Endpoint: "s3.example.com:9000", Bucket: "releases", AccessKey: "a", SecretKey: "b"}.Validate())
}

func TestConfig_ObjectName(t *testing.T) {
	c := Config{Prefix: "/freepps/releases/"}
	assert.Equal(t, "freepps/releases/FreePPS_v2.0.0.zip", c.ObjectName("/work/output/FreePPS_v2.0.0.zip"))
	assert.Equal(t, "FreePPS.zip", Config{}.ObjectName("FreePPS.zip"))
}

func TestNew_DoesNotDial(t *testing.T) {
	u, err := New(Config{Endpoint: "127.0.0.1:1", Bucket: "releases", AccessKey: "a", SecretKey: "b", Insecure: true})
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/zip", contentType("a.ZIP"))
	assert.Equal(t, "text/plain; charset=utf-8", contentType("a.zip.sha256"))
	assert.Equal(t, "application/octet-stream", contentType("FreePPS"))
}
