package render

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/http/flash"
	"rumal.store/web/internal/shared/apperr"
	"rumal.store/web/pkg/view"
)

func TestBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		referer, want string
	}{
		{"", "/cart"},
		{"http://shop.test/products?page=2", "/products?page=2"},
		{"http://evil.test/steal", "/cart"},
		{"/wishlist", "/wishlist"},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "http://shop.test/cart/items", nil)
		if tt.referer != "" {
			c.Request.Header.Set("Referer", tt.referer)
		}
		assert.Equal(t, tt.want, Back(c, "/cart"), tt.referer)
	}
}

func TestMutated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec := flash.NewCodec(auth.NewSigner([]byte("0123456789abcdef0123456789abcdef")), "", false)

	run := func(err error, accept, referer string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "http://shop.test/cart/items", nil)
		c.Request.Header.Set("Accept", accept)
		if referer != "" {
			c.Request.Header.Set("Referer", referer)
		}
		Mutated(c, codec, err, "Added to cart.", "/cart")
		return w
	}
	readFlash := func(t *testing.T, w *httptest.ResponseRecorder) *view.Flash {
		t.Helper()
		for _, ck := range w.Result().Cookies() {
			if ck.Name == codec.CookieName {
				f, err := codec.Decode(ck.Value)
				require.NoError(t, err)
				return f
			}
		}
		t.Fatal("no flash cookie")
		return nil
	}

	t.Run("success redirects to next", func(t *testing.T) {
		w := run(nil, "text/html", "http://shop.test/products/p1")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/cart", w.Header().Get("Location"))
		f := readFlash(t, w)
		assert.Equal(t, view.FlashSuccess, f.Kind)
		assert.Equal(t, "Added to cart.", f.Message)
	})

	t.Run("failure goes back with the public message", func(t *testing.T) {
		w := run(apperr.InvalidErr("Only 2 left in stock.", nil), "text/html", "http://shop.test/products/p1")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/products/p1", w.Header().Get("Location"))
		f := readFlash(t, w)
		assert.Equal(t, view.FlashError, f.Kind)
		assert.Equal(t, "Only 2 left in stock.", f.Message)
	})

	t.Run("internal failure hides the cause", func(t *testing.T) {
		w := run(errors.New("dial tcp 10.0.0.3:8080"), "text/html", "")
		f := readFlash(t, w)
		assert.NotContains(t, f.Message, "10.0.0.3")
	})

	t.Run("json success", func(t *testing.T) {
		w := run(nil, "application/json", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"message":"Added to cart."}`, w.Body.String())
	})
}
