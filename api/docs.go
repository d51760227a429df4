package api

import (
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"

	"users-backend/docs"
)

type DocsHandler struct {
	doc *docs.Document
}

func NewDocsHandler(doc *docs.Document) *DocsHandler {
	return &DocsHandler{doc: doc}
}

func (h *DocsHandler) OpenAPIJSON(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, h.doc.JSON)
}

func (h *DocsHandler) OpenAPIYAML(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/yaml", h.doc.YAML)
}

// UI serves Swagger UI pointed at /openapi.json.
func (h *DocsHandler) UI(c echo.Context) error {
	return c.HTML(http.StatusOK, fmt.Sprintf(swaggerPage, html.EscapeString(h.doc.Title)))
}

const swaggerPage = `<!DOCTYPE html>
<html>
<head>
<title>%s - Swagger UI</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
window.ui = SwaggerUIBundle({url: "/openapi.json", dom_id: "#swagger-ui"});
</script>
</body>
</html>
`
