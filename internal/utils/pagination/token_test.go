package pagination_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monetaflow/wallet_backend/internal/utils/pagination"
)

func TestEncodeDecodeToken_RoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 12, 9, 30, 15, 123456789, time.UTC)
	id := "0d9bb7a3-4c0f-4f33-9e16-5f1f0e9a2d61"

	token := pagination.EncodeToken(ts, id)
	gotTime, gotID, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_InvalidBase64(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeToken_MissingSeparator(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("no-separator-here"))
	_, _, err := pagination.DecodeToken(token)
	assert.Error(t, err)
}

func TestDecodeToken_BadTimestamp(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("yesterday|some-id"))
	_, _, err := pagination.DecodeToken(token)
	assert.Error(t, err)
}

func TestDecodeToken_EmptyID(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano) + "|"))
	_, _, err := pagination.DecodeToken(token)
	assert.Error(t, err)
}
