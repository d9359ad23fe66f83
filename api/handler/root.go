package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erensevin/recipe-api/models"
)

// WelcomeMessage is the body of GET /.
const WelcomeMessage = "Welcome to the Recipe Scraper API!"

// Root returns a handler for GET /.
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.MessageResponse{Message: WelcomeMessage})
	}
}
