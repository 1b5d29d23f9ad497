package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/EtomCoda/bobchi-backend/internal/models"
)

type updateProfileRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

// GetProfile fetches the caller's profile record, creating it on first sight.
// The record is seeded from the token email; any fetch error other than
// not-found surfaces without a creation attempt.
func GetProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /profile"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			log.Println("[PROFILE] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			log.Println("[PROFILE] [ERROR] profile fetch failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if errors.Is(err, mongo.ErrNoDocuments) {
			email, _ := c.Get("userEmail")
			emailValue, _ := email.(string)
			if strings.TrimSpace(emailValue) == "" {
				log.Println("[PROFILE] [ERROR] token email missing, cannot seed profile")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "profile could not be created"})
				return
			}

			now := time.Now()
			user = models.User{
				ID:        userID,
				Email:     emailValue,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := db.Collection("users").InsertOne(ctx, user); err != nil {
				log.Println("[PROFILE] [ERROR] profile create failed:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}
			log.Println("[PROFILE] [INFO] profile created for:", emailValue)
		}

		c.JSON(http.StatusOK, gin.H{
			"id":           user.ID.Hex(),
			"email":        user.Email,
			"full_name":    user.FullName,
			"phone_number": user.PhoneNumber,
		})
	}
}

// UpdateProfile overwrites name and phone only. Email is immutable here.
func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /profile"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			log.Println("[PROFILE] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"full_name":    strings.TrimSpace(req.FullName),
				"phone_number": strings.TrimSpace(req.PhoneNumber),
				"updated_at":   time.Now(),
			},
		})
		if err != nil {
			log.Println("[PROFILE] [ERROR] profile update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}

		log.Println("[PROFILE] [INFO] profile updated:", userID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}
