package controllers

import (
	"errors"
	"time"

	"github.com/KerlosDev/HossamBackk/backend/config"
	"github.com/KerlosDev/HossamBackk/backend/models"
	"github.com/KerlosDev/HossamBackk/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type registerInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Government string `json:"government"`
	Level      string `json:"level"`
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid registration data")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "Invalid registration data")
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "البريد الإلكتروني مستخدم من قبل")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Error creating user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Error creating user", err)
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         "user",
		Government:   input.Government,
		Level:        input.Level,
		LastActive:   time.Now(),
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.BadRequest(c, "البريد الإلكتروني مستخدم من قبل")
		}
		return utils.InternalServerError(c, "Error creating user", err)
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Error generating token", err)
	}

	return utils.Success(c, fiber.Map{
		"token": token,
		"user":  user,
	})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid login data")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "Invalid login data")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	if user.IsBanned {
		return utils.Forbidden(c, "تم حظر هذا الحساب")
	}

	ac.DB.Model(&user).UpdateColumn("last_active", time.Now())

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Error generating token", err)
	}

	return utils.Success(c, fiber.Map{
		"token": token,
		"user":  user,
	})
}
