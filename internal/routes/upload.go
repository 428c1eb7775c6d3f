package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"zerobin/internal/core"
	"zerobin/internal/item"
)

func UploadRoutes(r *gin.Engine, server core.PasteServer) {
	r.POST("/", func(c *gin.Context) {
		body, err := c.Request.MultipartReader()
		if err != nil {
			c.String(http.StatusBadRequest, "bad request: %v\n", err)
			return
		}

		it, err := server.Create(body)
		if err != nil {
			renderError(c, err)
			return
		}

		c.String(http.StatusOK, summary(it, server.Base))
	})

	r.PUT("/:id", func(c *gin.Context) {
		body, err := c.Request.MultipartReader()
		if err != nil {
			c.String(http.StatusBadRequest, "bad request: %v\n", err)
			return
		}

		it, err := server.Update(c.Param("id"), body)
		if err != nil {
			renderError(c, err)
			return
		}

		c.String(http.StatusOK, summary(it, server.Base))
	})
}

func summary(it item.Item, base string) string {
	return fmt.Sprintf("long: %s%s\nshort: %s\nsize: %d\n\n%s\n",
		item.DigestSigil, it.Digest, it.Label, len(it.Content), it.URL(base))
}
