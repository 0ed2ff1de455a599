package middleware

import "github.com/go-chi/cors"

// CORS annotates cross-origin responses — success or error — with the
// permissive policy the existing web client was built against: any origin,
// all five methods, credentials allowed, and a 200 preflight.
//
// Any-origin combined with Allow-Credentials is a known security concern.
// The deployed clients depend on it, so tightening the policy is a product
// decision, not something to change silently here.
var CORS = cors.Handler(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Content-Type", "Authorization"},
	AllowCredentials: true,
	MaxAge:           300,
})
