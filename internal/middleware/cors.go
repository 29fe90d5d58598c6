package middleware

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

type CORSOptions struct {
	Origins []string
	// Methods are the verbs the router serves. Preflights for anything else
	// are refused.
	Methods []string
}

func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	origins := opts.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	methods := opts.Methods
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: methods,
		AllowedHeaders: []string{authorizationHeader, "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         int(time.Hour.Seconds()),
	}).Handler
}
