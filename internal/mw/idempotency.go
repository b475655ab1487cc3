package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// IdempotencyHeader carries the client-chosen key of a POST.
const IdempotencyHeader = "Idempotency-Key"

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// inFlight marks a key whose first request has not finished yet.
type inFlight struct{}

// Idempotency replays the stored response of a POST that repeats an
// Idempotency-Key within ttl, so a retried order or registration is not
// created twice. A repeat that arrives while the first request is still
// running gets 409. Requests without the header pass through.
func Idempotency(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}

		key = c.Request.URL.Path + "|" + key
		if err := store.Add(key, inFlight{}, ttl); err != nil {
			if resp, found := store.Get(key); found {
				if cached, ok := resp.(cachedResponse); ok {
					replay(c, cached)
					return
				}
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "A request with this Idempotency-Key is already in progress"})
			return
		}

		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only successful responses are replayed; anything else frees the key.
		if blw.Status() >= 200 && blw.Status() < 300 {
			store.Set(key, cachedResponse{
				status:  blw.Status(),
				headers: blw.Header().Clone(),
				body:    blw.body.Bytes(),
			}, ttl)
			return
		}
		store.Delete(key)
	}
}

func replay(c *gin.Context, cached cachedResponse) {
	for k, v := range cached.headers {
		if k == http.CanonicalHeaderKey(RequestIDHeader) {
			continue
		}
		c.Writer.Header()[k] = v
	}
	c.Writer.Header().Set("Idempotent-Replayed", "true")
	c.Writer.WriteHeader(cached.status)
	_, _ = c.Writer.Write(cached.body)
	c.Abort()
}
