package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mingle/models"
	"mingle/utils"
)

// IdentityWebhook ingests account events from the upstream identity provider.
// The provider signs each delivery svix-style: HMAC-SHA256 over
// "<id>.<timestamp>.<body>" with the base64 portion of the endpoint secret.
func (h *Handler) IdentityWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequest(c, "unreadable payload")
		return
	}

	if !verifySignature(
		h.WebhookSecret,
		c.GetHeader("svix-id"),
		c.GetHeader("svix-timestamp"),
		c.GetHeader("svix-signature"),
		payload,
	) {
		utils.BadRequest(c, "invalid signature")
		return
	}

	var event models.IdentityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		utils.BadRequest(c, "invalid payload")
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		if err := h.Users.ApplyIdentityEvent(c.Request.Context(), &event); err != nil {
			utils.Error(c, err)
			return
		}
	default:
		zap.L().Info("identity webhook event ignored", zap.String("type", event.Type))
	}

	utils.Success(c, nil)
}

func verifySignature(secret, msgID, timestamp, signatureHeader string, payload []byte) bool {
	if msgID == "" || timestamp == "" || signatureHeader == "" {
		return false
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// The header may carry several space-separated versioned signatures.
	for _, part := range strings.Fields(signatureHeader) {
		version, signature, found := strings.Cut(part, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return true
		}
	}
	return false
}
