package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/russross/blackfriday/v2"
)

type DocsHandler struct{}

func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// ServeMarkdownAsHTML serves Markdown files as HTML with consistent styling
func (h *DocsHandler) ServeMarkdownAsHTML(c *gin.Context) {
	docName := c.Param("doc")
	if docName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document name required"})
		return
	}

	// Security: Only allow specific documentation files
	allowedDocs := map[string]string{
		"README": "README.md",
		"DESIGN": "DESIGN.md",
	}

	fileName, exists := allowedDocs[docName]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	content, err := os.ReadFile(filepath.Join(".", fileName))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	extensions := blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	htmlContent := blackfriday.Run(content, blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))

	title := getDocumentTitle(docName)

	html := h.wrapWithTheme(string(htmlContent), title)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, html)
}

// getDocumentTitle returns a human-readable title for the document
func getDocumentTitle(docName string) string {
	titles := map[string]string{
		"README": "Project Overview",
		"DESIGN": "Design Notes",
	}

	if title, exists := titles[docName]; exists {
		return title
	}
	return strings.ReplaceAll(docName, "_", " ")
}

// wrapWithTheme wraps the HTML content with consistent styling
func (h *DocsHandler) wrapWithTheme(content, title string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + title + ` - News Trust</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f8f9fa;
            padding: 20px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: white;
            padding: 3rem;
            border-radius: 12px;
            border: 1px solid #e5e7eb;
        }

        .container h1, .container h2, .container h3 {
            color: #1f2937;
            margin-top: 2rem;
            margin-bottom: 1rem;
        }

        .container h1 {
            border-bottom: 2px solid #e5e7eb;
            padding-bottom: 0.5rem;
            margin-top: 0;
        }

        .container h2 {
            color: #2563eb;
        }

        .container pre {
            background: #f3f4f6;
            border: 1px solid #d1d5db;
            border-radius: 8px;
            padding: 1.5rem;
            overflow-x: auto;
            font-size: 0.9rem;
        }

        .container code {
            background: #f3f4f6;
            padding: 0.2rem 0.4rem;
            border-radius: 4px;
            font-size: 0.9rem;
            color: #2563eb;
        }

        .container pre code {
            background: none;
            padding: 0;
            color: #374151;
        }

        .container table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 1.5rem;
        }

        .container th, .container td {
            border: 1px solid #d1d5db;
            padding: 0.75rem;
            text-align: left;
        }

        .container a {
            color: #2563eb;
            text-decoration: none;
        }

        .container a:hover {
            text-decoration: underline;
        }
    </style>
</head>
<body>
    <div class="container">
        ` + content + `
    </div>
</body>
</html>`
}
