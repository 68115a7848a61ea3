package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=10"`
	MaxMarks int    `json:"max_marks" binding:"required,min=1"`
}

func bindBody(body string) map[string]string {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req sampleRequest
	return Bind(c, &req)
}

func TestBind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Setup()

	assert.Nil(t, bindBody(`{"name":"Math","max_marks":100}`))

	fields := bindBody(`{"name":"   ","max_marks":0}`)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "max_marks")
	assert.Equal(t, "name must not be blank", fields["name"])

	fields = bindBody(`{not json`)
	assert.Contains(t, fields, "detail")
}
