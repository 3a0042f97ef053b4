package logger

import (
	"bytes"
	"log"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
	assert.Equal(t, "{a=1, b=x, c=1.50}", formatFields(Fields{"c": 1.5, "a": 1, "b": "x"}))
}

func TestWithContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/notation/render", nil)
	c.Set("request_id", "req-1")
	c.Set("user_id_str", "42")

	fields := WithContext(c)

	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/api/v1/notation/render", fields["path"])
	assert.Equal(t, "42", fields["user_id"])
}

func TestLevels_WriteWithoutSentry(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	flags := log.Flags()
	log.SetFlags(0)
	defer log.SetFlags(flags)

	Info("rendered", Fields{"notes": 3})
	Warn("skipped event", Fields{"instrument": "tambourine"})
	Error("render failed", nil, Fields{"request_id": "r"})

	out := buf.String()
	assert.Contains(t, out, "[INFO] rendered {notes=3}")
	assert.Contains(t, out, "[WARN] skipped event {instrument=tambourine}")
	assert.Contains(t, out, "[ERROR] render failed: <nil> {request_id=r}")
}
