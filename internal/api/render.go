package api

import (
	"encoding/xml"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wehaveweneed/exchange/pkg/logging"
)

// Serialization formats selected by the URL suffix
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// splitFormat splits a trailing format suffix from a path segment:
// "categories.json" yields ("categories", "json"). A segment without a
// suffix comes back with an empty format.
func splitFormat(segment string) (name, format string) {
	idx := strings.LastIndex(segment, ".")
	if idx < 0 {
		return segment, ""
	}
	return segment[:idx], segment[idx+1:]
}

// emit writes payload in the requested format. An empty format defaults
// to JSON; an unknown one is a 406.
func emit(c *gin.Context, format string, status int, payload interface{}) {
	switch format {
	case "", FormatJSON:
		c.JSON(status, payload)
	case FormatXML:
		c.XML(status, payload)
	default:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "unsupported format: " + format})
	}
}

// XML list wrappers; encoding/xml cannot emit a bare slice as a document.
type categoryListXML struct {
	XMLName    xml.Name          `xml:"categories"`
	Categories []CategoryPayload `xml:"category"`
}

type postListXML struct {
	XMLName xml.Name      `xml:"posts"`
	Posts   []PostPayload `xml:"post"`
}

type replyListXML struct {
	XMLName xml.Name       `xml:"replies"`
	Replies []ReplyPayload `xml:"reply"`
}

func emitCategoryList(c *gin.Context, format string, categories []CategoryPayload) {
	if format == FormatXML {
		emit(c, format, http.StatusOK, categoryListXML{Categories: categories})
		return
	}
	emit(c, format, http.StatusOK, categories)
}

func emitPostList(c *gin.Context, format string, posts []PostPayload) {
	if format == FormatXML {
		emit(c, format, http.StatusOK, postListXML{Posts: posts})
		return
	}
	emit(c, format, http.StatusOK, posts)
}

func emitReplyList(c *gin.Context, format string, replies []ReplyPayload) {
	if format == FormatXML {
		emit(c, format, http.StatusOK, replyListXML{Replies: replies})
		return
	}
	emit(c, format, http.StatusOK, replies)
}

// writeError maps the error taxonomy onto HTTP responses: NotFound to
// 404, validation to 400 with the field list, everything else to 500.
func writeError(c *gin.Context, format string, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		logging.WithComponent("api").Error("unhandled error", zap.Error(err))
		apiErr = Internal(err)
	}

	body := gin.H{"error": apiErr.Message}
	if len(apiErr.Fields) > 0 {
		body["fields"] = apiErr.Fields
	}
	emit(c, format, apiErr.Status, body)
}
