package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dgarrido/wedding-server/config"
)

// Ping answers with the configured message, defaulting to pong.
func Ping(c *gin.Context) {
	msg := "pong"
	if config.App != nil && config.App.PingMessage != "" {
		msg = config.App.PingMessage
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "ok",
		"message": "Service is healthy",
		"db":      "ok",
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		response["db"] = "error: cannot get DB instance"
		c.JSON(http.StatusInternalServerError, response)
		return
	}
	if err := sqlDB.Ping(); err != nil {
		response["db"] = "error: cannot connect to DB"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
