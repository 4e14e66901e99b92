package doc

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// Options configures the served API document.
type Options struct {
	Environment string
	Host        string
	Port        string
}

func swaggerJSONHandler(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		originalJSON, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read Swagger doc"})
			return
		}

		var swaggerData map[string]interface{}
		if err := json.Unmarshal([]byte(originalJSON), &swaggerData); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Swagger doc"})
			return
		}

		swaggerData["servers"] = serversFor(opts)
		if opts.Host != "" {
			swaggerData["host"] = fmt.Sprintf("%s:%s", opts.Host, opts.Port)
		}

		modifiedJSON, err := json.Marshal(swaggerData)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate modified Swagger doc"})
			return
		}

		c.Data(http.StatusOK, "application/json", modifiedJSON)
	}
}

func serversFor(opts Options) []map[string]interface{} {
	host, port := opts.Host, opts.Port
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "8080"
	}

	servers := []map[string]interface{}{
		{
			"url":         fmt.Sprintf("http://%s:%s/api/v1", host, port),
			"description": "Local Server",
		},
	}

	if opts.Environment == "staging" || opts.Environment == "production" {
		servers[0]["description"] = fmt.Sprintf("%s server", opts.Environment)
	}

	return servers
}

func serveElements(c *gin.Context) {
	elementsHTML := `
<!DOCTYPE html>
<html>
<head>
    <title>Find Country API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
    <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
    <style>
        body { margin: 0; padding: 0; height: 100vh; }
        elements-api { height: 100%; }
    </style>
</head>
<body>
    <elements-api
        apiDescriptionUrl="/swagger/doc.json"
        router="hash"
        layout="sidebar"
        hideInternal="false"
    ></elements-api>
</body>
</html>`
	c.Header("Content-Type", "text/html")
	c.String(http.StatusOK, elementsHTML)
}

func Init(r *gin.Engine, opts Options) {
	r.GET("/swagger/doc.json", swaggerJSONHandler(opts))

	r.GET("/docs/*any", serveElements)
}
