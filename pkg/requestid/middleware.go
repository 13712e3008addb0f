package requestid

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/okapikit/pkg/okapi"
)

const (
	Header      = okapi.RequestID
	maxIDLength = 512
	// gateway ids look like "123456/orders;654321/users"
	idPattern = `^[a-zA-Z0-9_./;:-]+$`
)

var validIDRegex = regexp.MustCompile(idPattern)

// Middleware makes sure every request carries an x-okapi-request-id. A
// missing or malformed id is replaced with a new UUID. The id is written back
// to the request headers, so an execution context built afterwards sees it,
// and echoed on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := okapi.Headers(r.Header).Get(Header)
		if !isValidRequestID(requestID) {
			requestID = uuid.New().String()
		}

		for k := range r.Header {
			if strings.EqualFold(k, Header) {
				delete(r.Header, k)
			}
		}
		r.Header.Set(Header, requestID)
		w.Header().Set(Header, requestID)

		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), requestID)))
	})
}

func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validIDRegex.MatchString(id)
}
