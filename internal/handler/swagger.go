package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const swaggerSpecURL = "/swagger/doc.json"

// SetupSwagger serves spec as /swagger/doc.json and a Swagger UI page for
// every other path under /swagger/.
func SetupSwagger(router *gin.Engine, spec []byte) {
	page := []byte(strings.ReplaceAll(swaggerUIHTML, "{{SPEC_URL}}", swaggerSpecURL))

	router.GET("/swagger/*any", func(c *gin.Context) {
		if "/swagger"+c.Param("any") == swaggerSpecURL {
			c.Data(http.StatusOK, "application/json", spec)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Chelsea Symphony Donations API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: '{{SPEC_URL}}', dom_id: '#swagger-ui', deepLinking: true });
  </script>
</body>
</html>`
