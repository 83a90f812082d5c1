package server

import "net/http"

// cors returns middleware that handles CORS headers for the API.
func cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// A configured wildcard sends "*" rather than echoing the request
			// origin, which may be absent on same-origin or non-browser requests.
			allow := ""
			for _, o := range allowedOrigins {
				if o == "*" {
					allow = "*"
					break
				}
				if o == origin && origin != "" {
					allow = origin
					break
				}
			}

			if allow != "" {
				w.Header().Set("Access-Control-Allow-Origin", allow)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
