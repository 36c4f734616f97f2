package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSplitFormat(t *testing.T) {
	tests := []struct {
		name       string
		segment    string
		wantName   string
		wantFormat string
	}{
		{
			name:       "collection with suffix",
			segment:    "categories.json",
			wantName:   "categories",
			wantFormat: "json",
		},
		{
			name:       "xml suffix",
			segment:    "haves.xml",
			wantName:   "haves",
			wantFormat: "xml",
		},
		{
			name:       "post id with suffix",
			segment:    "17.json",
			wantName:   "17",
			wantFormat: "json",
		},
		{
			name:       "no suffix",
			segment:    "17",
			wantName:   "17",
			wantFormat: "",
		},
		{
			name:       "slug with hyphens",
			segment:    "food-and-water.json",
			wantName:   "food-and-water",
			wantFormat: "json",
		},
		{
			name:       "only the last dot splits",
			segment:    "v1.2.json",
			wantName:   "v1.2",
			wantFormat: "json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotFormat := splitFormat(tt.segment)
			if gotName != tt.wantName || gotFormat != tt.wantFormat {
				t.Errorf("splitFormat(%q) = (%q, %q), want (%q, %q)",
					tt.segment, gotName, gotFormat, tt.wantName, tt.wantFormat)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantFields bool
	}{
		{
			name:       "not found maps to 404",
			err:        NotFound("no post with id %d", 99),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "validation maps to 400 with fields",
			err:        Invalid("title", "content"),
			wantStatus: http.StatusBadRequest,
			wantFields: true,
		},
		{
			name:       "anything else maps to 500",
			err:        assertableError("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			writeError(c, FormatJSON, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response should be JSON: %v", err)
			}
			if _, ok := body["error"]; !ok {
				t.Error("response should carry an error message")
			}
			_, hasFields := body["fields"]
			if hasFields != tt.wantFields {
				t.Errorf("fields present = %v, want %v", hasFields, tt.wantFields)
			}
		})
	}
}

func TestEmitUnsupportedFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	emit(c, "yaml", http.StatusOK, gin.H{"ok": true})

	if rec.Code != http.StatusNotAcceptable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotAcceptable)
	}
}

type assertableError string

func (e assertableError) Error() string { return string(e) }
