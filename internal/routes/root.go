package routes

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"zerobin/internal/core"
	"zerobin/internal/item"
)

//go:embed post.html
var indexPage []byte

func RootRoutes(r *gin.Engine, server core.PasteServer) {
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
	})

	r.GET("/:id", func(c *gin.Context) {
		out, err := server.Fetch(c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}

		it := out.Item
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", it.Filename))

		if out.Redirect != "" {
			c.Header("Location", out.Redirect)
			c.Data(http.StatusPermanentRedirect, it.Mimetype, []byte("Redirecting to "+out.Redirect))
			return
		}

		c.Data(http.StatusOK, it.Mimetype, it.Content)
	})

	r.DELETE("/:id", func(c *gin.Context) {
		if err := server.Delete(c.Param("id")); err != nil {
			renderError(c, err)
			return
		}

		c.String(http.StatusOK, "Deleted.\n")
	})
}

func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		c.String(http.StatusNotFound, "not found\n")
	case item.IsClientError(err):
		c.String(http.StatusBadRequest, "bad request: %v\n", err)
	default:
		log.Printf("request failed. %+v", err)
		c.String(http.StatusInternalServerError, "server error\n")
	}
}
