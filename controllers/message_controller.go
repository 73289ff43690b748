package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lingobazaar/lingobazaar-api/middleware"
	"github.com/lingobazaar/lingobazaar-api/models"
	"github.com/lingobazaar/lingobazaar-api/services"
	"gorm.io/gorm"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

// MessageController handles the direct-messaging endpoints
type MessageController struct {
	db         *gorm.DB
	translator services.Translator
}

// NewMessageController creates a message controller with its dependencies
func NewMessageController(db *gorm.DB, translator services.Translator) *MessageController {
	return &MessageController{db: db, translator: translator}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// SendMessage handles POST /messages/send - sends a message to another user
func (mc *MessageController) SendMessage(c *gin.Context) {
	// Extract the caller's user ID from the token
	senderID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	// Parse request body
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	// Look up sender and receiver preferred languages. A missing profile
	// falls back to "en".
	senderLang := mc.preferredLanguage(senderID)
	receiverLang := mc.preferredLanguage(req.ReceiverID)

	// Translate only when the languages differ. Translation failure is
	// non-fatal: the message still sends with the original text only.
	var translated *string
	if senderLang != receiverLang {
		if out, err := mc.translator.Translate(req.Message, receiverLang, senderLang); err != nil {
			log.Printf("Translation failed, sending untranslated: %v", err)
		} else {
			translated = &out
		}
	}

	// Persist the message
	message := models.Message{
		SenderID:          senderID,
		ReceiverID:        req.ReceiverID,
		Message:           req.Message,
		TranslatedMessage: translated,
	}

	if err := mc.db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to send message",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message sent",
	})
}

// ListMessages handles GET /messages/:conversation_id - lists the messages
// of a two-party conversation, ordered by timestamp ascending
func (mc *MessageController) ListMessages(c *gin.Context) {
	// Extract the caller's user ID from the token
	callerID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	// The conversation id is "{idA}_{idB}" for two distinct users
	userA, userB, err := models.ParseConversationID(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CONVERSATION_ID",
				"message": "Invalid conversation_id",
			},
		})
		return
	}

	// The caller must be one of the two participants
	if callerID != userA && callerID != userB {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You are not a participant in this conversation",
			},
		})
		return
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	// Fetch messages sent in either direction between the two users
	messages := []models.Message{}
	if err := mc.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("timestamp ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch messages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// preferredLanguage returns the user's preferred language, or "en" when the
// profile is missing or the field is unset
func (mc *MessageController) preferredLanguage(userID string) string {
	var profile models.Profile
	if err := mc.db.First(&profile, "id = ?", userID).Error; err != nil {
		return "en"
	}
	if profile.PreferredLanguage == "" {
		return "en"
	}
	return profile.PreferredLanguage
}

// parsePagination validates the limit/offset query parameters. limit must
// be in [1,100] (default 50) and offset must be >= 0 (default 0).
func parsePagination(c *gin.Context) (int, int, error) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultMessageLimit)))
	if err != nil || limit < 1 || limit > maxMessageLimit {
		return 0, 0, &paginationError{"limit must be an integer between 1 and 100"}
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, &paginationError{"offset must be a non-negative integer"}
	}

	return limit, offset, nil
}

type paginationError struct {
	msg string
}

func (e *paginationError) Error() string {
	return e.msg
}
