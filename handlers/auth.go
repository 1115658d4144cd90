package handlers

import (
	"errors"
	"net/http"

	"finance-tracker/config"
	"finance-tracker/middleware"
	"finance-tracker/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	var user models.User
	err := config.DB.Where("username = ?", username).First(&user).Error
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error": "Invalid username or password",
		})
		return
	}

	token, err := middleware.SessionToken(user.ID, user.Username)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Could not start a session",
		})
		return
	}
	middleware.SetSession(c, token)
	c.Redirect(http.StatusFound, "/")
}

func ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	if username == "" || email == "" || password == "" {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Error": "Username, email and password are required",
		})
		return
	}
	if password != confirm {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Error": "Passwords do not match!",
		})
		return
	}

	var existing models.User
	err := config.DB.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		c.HTML(http.StatusConflict, "register.html", gin.H{
			"Error": "Username or email already exists!",
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.HTML(http.StatusInternalServerError, "register.html", gin.H{
			"Error": "Something went wrong, try again",
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "register.html", gin.H{
			"Error": "Something went wrong, try again",
		})
		return
	}

	user := models.User{Username: username, Email: email, Password: string(hashed)}
	if err := config.DB.Create(&user).Error; err != nil {
		// Lost the race against a concurrent signup with the same name.
		c.HTML(http.StatusConflict, "register.html", gin.H{
			"Error": "Username or email already exists!",
		})
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Message": "Account created successfully! Please log in.",
	})
}

func Logout(c *gin.Context) {
	middleware.ClearSession(c)
	c.Redirect(http.StatusFound, "/login")
}
