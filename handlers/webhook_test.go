package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(t *testing.T, secret, msgID, timestamp string, payload []byte) string {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		t.Fatalf("bad test secret: %v", err)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	rawSecret := base64.StdEncoding.EncodeToString([]byte("supersecretkey01"))
	secret := "whsec_" + rawSecret
	payload := []byte(`{"type":"user.created","data":{"id":"ext-1"}}`)
	signature := sign(t, rawSecret, "msg_1", "1693300000", payload)

	assert.True(t, verifySignature(secret, "msg_1", "1693300000", "v1,"+signature, payload))

	// The header may carry multiple versioned signatures.
	assert.True(t, verifySignature(secret, "msg_1", "1693300000", "v2,bogus "+"v1,"+signature, payload))

	// Secrets without the whsec_ prefix are accepted as bare base64.
	assert.True(t, verifySignature(rawSecret, "msg_1", "1693300000", "v1,"+signature, payload))
}

func TestVerifySignature_Rejects(t *testing.T) {
	rawSecret := base64.StdEncoding.EncodeToString([]byte("supersecretkey01"))
	secret := "whsec_" + rawSecret
	payload := []byte(`{"type":"user.created"}`)
	signature := sign(t, rawSecret, "msg_1", "1693300000", payload)

	// Missing headers.
	assert.False(t, verifySignature(secret, "", "1693300000", "v1,"+signature, payload))
	assert.False(t, verifySignature(secret, "msg_1", "", "v1,"+signature, payload))
	assert.False(t, verifySignature(secret, "msg_1", "1693300000", "", payload))

	// Tampered payload.
	assert.False(t, verifySignature(secret, "msg_1", "1693300000", "v1,"+signature, []byte(`{}`)))

	// Signature bound to a different message id or timestamp.
	assert.False(t, verifySignature(secret, "msg_2", "1693300000", "v1,"+signature, payload))
	assert.False(t, verifySignature(secret, "msg_1", "1693300001", "v1,"+signature, payload))

	// Unversioned or wrong-version signatures never match.
	assert.False(t, verifySignature(secret, "msg_1", "1693300000", signature, payload))
	assert.False(t, verifySignature(secret, "msg_1", "1693300000", "v2,"+signature, payload))

	// Undecodable secret.
	assert.False(t, verifySignature("whsec_!!!", "msg_1", "1693300000", "v1,"+signature, payload))
}
