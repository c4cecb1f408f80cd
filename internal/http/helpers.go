package http

import (
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookgallery/internal/auth"
)

// htmlContentType is the content type of HTML fragments and pages.
const htmlContentType = "text/html; charset=utf-8"

// respondInternalError logs the error and sends a generic 500 page.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.String(http.StatusInternalServerError, "Internal server error")
}

// parseIDParam extracts an unsigned integer ID from URL parameters.
// Responds with 400 and returns false when it is not a number.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// pageData returns the template data shared by every page: the flash
// messages carried in the query string and, on admin pages, the CSRF token.
func pageData(c *gin.Context, title string) gin.H {
	data := gin.H{
		"Title":   title,
		"Error":   c.Query("error"),
		"Message": c.Query("message"),
	}
	if token := auth.GetCSRFToken(c); token != "" {
		data["Admin"] = true
		data["CSRFField"] = auth.CSRFFieldName
		data["CSRFToken"] = token
	}
	return data
}

// redirectWith sends a 303 to path with a flash message.
func redirectWith(c *gin.Context, path, key, message string) {
	c.Redirect(http.StatusSeeOther, path+"?"+key+"="+url.QueryEscape(message))
}
