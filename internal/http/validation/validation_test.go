package validation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/shared/apperr"
)

type reviewForm struct {
	Rating  int    `form:"rating" binding:"required,min=1,max=5"`
	Comment string `form:"comment" binding:"required"`
	Email   string `form:"notify_email" binding:"omitempty,email"`
}

func bindForm(t *testing.T, form url.Values, dst any) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return Bind(c, dst)
}

func TestBind_FieldMessagesUseFormTags(t *testing.T) {
	var f reviewForm
	err := bindForm(t, url.Values{"rating": {"9"}, "notify_email": {"nope"}}, &f)
	require.Error(t, err)

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)
	assert.Equal(t, "Must be at most 5.", ae.Fields["rating"])
	assert.Equal(t, "This field is required.", ae.Fields["comment"])
	assert.Equal(t, "Enter a valid email address.", ae.Fields["notify_email"])
	assert.Equal(t, "Please check the highlighted fields.", ae.PublicMsg)
}

func TestBind_SingleFieldSummary(t *testing.T) {
	var f reviewForm
	err := bindForm(t, url.Values{"rating": {"4"}}, &f)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "Comment: This field is required.", ae.PublicMsg)
}

func TestBind_OK(t *testing.T) {
	var f reviewForm
	require.NoError(t, bindForm(t, url.Values{"rating": {"5"}, "comment": {"Lovely weave"}}, &f))
	assert.Equal(t, 5, f.Rating)
}
