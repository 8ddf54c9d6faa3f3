package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/skydesk/workspace-booking/internal/utils"
)

func invoke(mw echo.MiddlewareFunc, authHeader string, set map[string]interface{}) (int, echo.Context) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    for k, v := range set {
        c.Set(k, v)
    }
    handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
    _ = handler(c)
    return rec.Code, c
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
    const secret = "s3cret"
    at, err := utils.NewAccessToken(secret, 42, "USER", 5)
    if err != nil {
        t.Fatalf("NewAccessToken error: %v", err)
    }

    code, c := invoke(JWTAuth(secret), "Bearer "+at.Token, nil)
    if code != http.StatusOK {
        t.Fatalf("status = %d, want 200", code)
    }
    if sub, _ := c.Get("user_id").(float64); uint64(sub) != 42 {
        t.Errorf("user_id = %v, want 42", c.Get("user_id"))
    }
    if role, _ := c.Get("role").(string); role != "USER" {
        t.Errorf("role = %v, want USER", c.Get("role"))
    }
}

func TestJWTAuthRejectsMissingAndForgedTokens(t *testing.T) {
    if code, _ := invoke(JWTAuth("s3cret"), "", nil); code != http.StatusUnauthorized {
        t.Errorf("missing header: status = %d, want 401", code)
    }
    at, _ := utils.NewAccessToken("other-secret", 42, "USER", 5)
    if code, _ := invoke(JWTAuth("s3cret"), "Bearer "+at.Token, nil); code != http.StatusUnauthorized {
        t.Errorf("forged token: status = %d, want 401", code)
    }
}

func TestRequireRole(t *testing.T) {
    mw := RequireRole("ADMIN")
    if code, _ := invoke(mw, "", map[string]interface{}{"role": "ADMIN"}); code != http.StatusOK {
        t.Errorf("admin: status = %d, want 200", code)
    }
    if code, _ := invoke(mw, "", map[string]interface{}{"role": "USER"}); code != http.StatusForbidden {
        t.Errorf("user: status = %d, want 403", code)
    }
    if code, _ := invoke(mw, "", nil); code != http.StatusForbidden {
        t.Errorf("no role: status = %d, want 403", code)
    }
}
