package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyLayout(t *testing.T) {
	at := time.Date(2024, time.March, 7, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	key := ObjectKey(at, "abc", "image/png")
	assert.Equal(t, "grievances/2024/03/07/abc.png", key)

	assert.Equal(t, "grievances/2024/03/07/abc", ObjectKey(at, "abc", "application/octet-stream"))
}

func TestUserMetaIsCaseInsensitive(t *testing.T) {
	m := map[string]string{"X-Amz-Meta-Citizen-Id": "u1", "Filename": "a.jpg"}
	assert.Equal(t, "u1", userMeta(m, "citizen-id"))
	assert.Equal(t, "a.jpg", userMeta(m, "filename"))
	assert.Empty(t, userMeta(m, "missing"))
}
