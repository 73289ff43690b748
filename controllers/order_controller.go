package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lingobazaar/lingobazaar-api/middleware"
	"github.com/lingobazaar/lingobazaar-api/models"
	"gorm.io/gorm"
)

// OrderController handles the order tracking endpoints
type OrderController struct {
	db *gorm.DB
}

// NewOrderController creates an order controller with its dependencies
func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{db: db}
}

// UpdateOrderStatusRequest represents the request body for a status update
type UpdateOrderStatusRequest struct {
	NewStatus string `json:"new_status" binding:"required"`
}

// ListOrders handles GET /orders/:user_id - lists the caller's orders with
// their line items attached.
//
// The caller must be the requested user: a seller role grants no right to
// read another user's orders, only the rows where the caller is a party.
func (oc *OrderController) ListOrders(c *gin.Context) {
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

	userID := c.Param("user_id")
	if callerID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Forbidden",
			},
		})
		return
	}

	role, err := middleware.GetUserRole(c)
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

	// Buyers see orders they placed, sellers see orders they fulfil
	query := oc.db.Preload("Items").Order("id ASC")
	switch role {
	case "buyer":
		query = query.Where("buyer_id = ?", userID)
	case "seller":
		query = query.Where("seller_id = ?", userID)
	default:
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ROLE",
				"message": "Invalid role",
			},
		})
		return
	}

	orders := []models.Order{}
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	// Orders with no line items return an empty list, not null
	for i := range orders {
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
		if orders[i].StatusTimestamps == nil {
			orders[i].StatusTimestamps = models.StatusTimestamps{}
		}
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus handles POST /orders/:order_id/status - moves an order
// one step forward through its lifecycle (sellers only).
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
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

	// Only sellers can update order status
	role, err := middleware.GetUserRole(c)
	if err != nil || role != "seller" {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only sellers can update order status",
			},
		})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid order ID",
			},
		})
		return
	}

	// Fetch the order
	var order models.Order
	if err := oc.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch order",
			},
		})
		return
	}

	// Sellers can only update their own orders
	if order.SellerID != callerID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You can only update your own orders",
			},
		})
		return
	}

	// Parse request body
	var req UpdateOrderStatusRequest
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

	// Validate the status transition: forward, single step only
	if err := models.ValidateStatusTransition(order.Status, req.NewStatus); err != nil {
		message := "Invalid status transition"
		if errors.Is(err, models.ErrUnknownStatus) {
			message = "Invalid status"
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": message,
			},
		})
		return
	}

	// Record when the order entered the new status
	stamps := order.StatusTimestamps
	if stamps == nil {
		stamps = models.StatusTimestamps{}
	}
	stamps[req.NewStatus] = time.Now().UTC().Format(time.RFC3339)

	// Conditional update: the write only applies if the status is still the
	// one we validated against, so two concurrent updates cannot both win.
	result := oc.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(map[string]interface{}{
			"status":            req.NewStatus,
			"status_timestamps": stamps,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Order status was changed by another request",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Order status updated",
		"order_id":   order.ID,
		"new_status": req.NewStatus,
	})
}
