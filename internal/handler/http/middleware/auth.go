package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type employeeIDKey struct{}

// AuthRequired rejects requests without a valid access token and exposes the
// authenticated employee id through EmployeeIDFromContext.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			response.Unauthenticated(w, err.Error())
			return
		}

		if token == nil {
			response.Unauthenticated(w, "Invalid token")
			return
		}

		tokenType, ok := claims[jwt.ClaimType].(string)
		if tokenType != jwt.TokenTypeAccess || !ok {
			response.Unauthenticated(w, "Invalid token")
			return
		}

		employeeID, ok := claims[jwt.ClaimEmployeeID].(string)
		if !ok || employeeID == "" {
			response.Unauthenticated(w, "Employee ID not found in token")
			return
		}

		ctx := context.WithValue(r.Context(), employeeIDKey{}, employeeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}

// EmployeeIDFromContext returns the employee the request is authenticated as.
func EmployeeIDFromContext(ctx context.Context) (string, bool) {
	employeeID, ok := ctx.Value(employeeIDKey{}).(string)
	return employeeID, ok && employeeID != ""
}
