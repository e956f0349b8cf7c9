package handlers

import (
	"fmt"
	"time"

	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/ankitgade/greenfleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	UserType string `json:"userType" binding:"required,oneof=client driver"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyOTPInput defines the input for verifying OTP
type VerifyOTPInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// ResetPasswordInput defines the input for resetting password
type ResetPasswordInput struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ResetPasswordRequestInput defines the input for requesting a password reset
type ResetPasswordRequestInput struct {
	Email string `json:"email" binding:"required,email"`
}

// issueOTP invalidates any live codes of the same type for the user,
// mints a fresh one, and stores it. The timestamp in the generation key
// makes each request produce a different code.
func issueOTP(db *gorm.DB, user *models.User, otpType models.OTPType, keyPrefix string) (string, error) {
	db.Model(&models.OTP{}).
		Where("user_id = ? AND type = ? AND used = ? AND expires_at > ?",
			user.ID, otpType, false, time.Now()).
		Update("used", true)

	key := fmt.Sprintf("%s-%s-%s", keyPrefix, user.Email, time.Now().Format("20060102150405"))
	code := utils.GenerateOTP(key)

	record := models.OTP{
		UserID:    user.ID,
		Code:      code,
		Type:      otpType,
		ExpiresAt: time.Now().Add(utils.OTPExpiration),
	}
	if result := db.Create(&record); result.Error != nil {
		return "", result.Error
	}
	return code, nil
}

// findValidOTP fetches an unexpired, unused code of the given type.
func findValidOTP(db *gorm.DB, userID uint, code string, otpType models.OTPType) (*models.OTP, error) {
	var rec models.OTP
	err := db.Where("user_id = ? AND code = ? AND type = ? AND used = ? AND expires_at > ?",
		userID, code, otpType, false, time.Now()).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func consumeOTP(db *gorm.DB, id uint) error {
	return db.Model(&models.OTP{}).Where("id = ?", id).Update("used", true).Error
}

// userResponse is the account shape returned by auth endpoints.
func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"username":     user.Username,
		"phoneNumber":  user.PhoneNumber,
		"userType":     user.UserType,
		"isVerified":   user.IsVerified,
		"driverStatus": user.DriverStatus,
	}
}

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hashedPassword),
			PhoneNumber:  input.Phone,
			UserType:     input.UserType,
			IsVerified:   false,
		}

		// Drivers enter the approval queue and cannot take shipments
		// until an admin reviews their license
		if input.UserType == string(models.UserTypeDriver) {
			user.DriverStatus = string(models.DriverStatusPending)
		}

		if result := db.Create(&user); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create user: " + result.Error.Error()})
			return
		}

		code, err := issueOTP(db, &user, models.OTPTypeEmailVerification, "register")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate verification OTP"})
			return
		}
		if err := utils.SendEmailVerificationOTP(user.Email, code); err != nil {
			c.JSON(500, gin.H{"error": "Failed to send verification email: " + err.Error()})
			return
		}

		c.JSON(201, gin.H{
			"message":              "User created successfully. Please check your email for verification code.",
			"user":                 userResponse(&user),
			"requiresVerification": true,
		})
	}
}

func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		// Unverified accounts get a fresh code instead of a token
		if !user.IsVerified {
			code, err := issueOTP(db, &user, models.OTPTypeEmailVerification, "login")
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to generate verification OTP"})
				return
			}
			if err := utils.SendEmailVerificationOTP(user.Email, code); err != nil {
				c.JSON(500, gin.H{"error": "Failed to send verification email: " + err.Error()})
				return
			}

			c.JSON(200, gin.H{
				"message":              "Email verification required. Check your email for verification code.",
				"requiresVerification": true,
				"email":                user.Email,
			})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user":  userResponse(&user),
		})
	}
}

// RequestPasswordReset initiates the password reset process
func RequestPasswordReset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ResetPasswordRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		code, err := issueOTP(db, &user, models.OTPTypePasswordReset, "reset")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate OTP"})
			return
		}

		if err := utils.SendPasswordResetOTP(user.Email, user.PhoneNumber, code); err != nil {
			c.JSON(500, gin.H{"error": "Failed to send OTP: " + err.Error()})
			return
		}

		deliveryMethods := "email"
		if user.PhoneNumber != "" {
			deliveryMethods = "email and SMS"
		}

		c.JSON(200, gin.H{
			"message":          fmt.Sprintf("Password reset OTP sent successfully via %s", deliveryMethods),
			"delivery_methods": deliveryMethods,
		})
	}
}

// ResetPassword resets the user's password after OTP verification
func ResetPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ResetPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		otpRecord, err := findValidOTP(db, user.ID, input.OTP, models.OTPTypePasswordReset)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid or expired OTP"})
			return
		}

		// Consume before changing the password so a concurrent reset
		// with the same code cannot go through twice
		if err := consumeOTP(db, otpRecord.ID); err != nil {
			c.JSON(500, gin.H{"error": "Failed to mark OTP as used"})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		user.PasswordHash = string(hashedPassword)
		if result := db.Save(&user); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update password"})
			return
		}

		c.JSON(200, gin.H{"message": "Password reset successful"})
	}
}

// VerifyOTP checks a password-reset code without consuming it; the
// actual reset consumes it.
func VerifyOTP(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if _, err := findValidOTP(db, user.ID, input.OTP, models.OTPTypePasswordReset); err != nil {
			c.JSON(400, gin.H{"error": "Invalid or expired OTP"})
			return
		}

		c.JSON(200, gin.H{"message": "OTP verified successfully", "valid": true})
	}
}

// VerifyEmail verifies user's email with OTP and generates login token
func VerifyEmail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		otpRecord, err := findValidOTP(db, user.ID, input.OTP, models.OTPTypeEmailVerification)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid or expired verification code"})
			return
		}

		if err := consumeOTP(db, otpRecord.ID); err != nil {
			c.JSON(500, gin.H{"error": "Failed to mark OTP as used"})
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_verified", true).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to verify user"})
			return
		}
		user.IsVerified = true

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Email verified successfully",
			"token":   token,
			"user":    userResponse(&user),
		})
	}
}
