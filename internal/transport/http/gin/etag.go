package httpgin

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type cachePolicy struct {
	maxAge  time.Duration
	private bool
}

var (
	// per-client views depend on the caller's cached location
	perClient = cachePolicy{maxAge: 15 * time.Second, private: true}
	shared    = cachePolicy{maxAge: 30 * time.Second}
	noStore   = cachePolicy{}
)

func (p cachePolicy) header() string {
	if p.maxAge <= 0 {
		return "no-store"
	}
	scope := "public"
	if p.private {
		scope = "private"
	}
	return fmt.Sprintf("%s, max-age=%d", scope, int(p.maxAge.Seconds()))
}

// writeJSONWithCache writes v with a weak ETag over its encoding. A
// matching If-None-Match gets 304 and no body.
func writeJSONWithCache(c *gin.Context, v any, policy cachePolicy) {
	b, err := json.Marshal(v)
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}

	sum := sha256.Sum256(b)
	tag := `W/"` + hex.EncodeToString(sum[:16]) + `"`

	c.Header("ETag", tag)
	c.Header("Cache-Control", policy.header())
	if c.GetHeader("If-None-Match") == tag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}
