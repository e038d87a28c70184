package server

import "fmt"

// displayServerInfo prints the listening address and security posture
func (s *Server) displayServerInfo(addr string, tlsEnabled bool) {
	scheme := "http"
	if tlsEnabled {
		scheme = "https"
	}
	fmt.Fprintf(s.out, "Starting resumine API on %s://%s\n", scheme, addr)
	switch s.TLSConfig.Mode {
	case tlsModeMutual:
		fmt.Fprintln(s.out, "TLS mode: Mutual (client certificates required)")
	case tlsModeServer:
		fmt.Fprintln(s.out, "TLS mode: Server-only")
	default:
		fmt.Fprintln(s.out, "TLS mode: Disabled (HTTP only)")
	}

	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

func (s *Server) displayEndpoints() {
	fmt.Fprintln(s.out, "Available endpoints:")
	fmt.Fprintln(s.out, "  GET  /health          - Health check")
	fmt.Fprintln(s.out, "  GET  /stats           - Server statistics")
	fmt.Fprintln(s.out, "  POST /extract         - Extract structured resume data")
	fmt.Fprintln(s.out, "  POST /analyze         - Extract and analyze a resume")
	fmt.Fprintln(s.out, "  POST /screen          - Screen a resume against job requirements")
	fmt.Fprintln(s.out, "  POST /questions       - Generate interview questions")
	fmt.Fprintln(s.out, "  GET  /results         - List saved results")
	fmt.Fprintln(s.out, "  GET  /results/{name}  - Fetch a saved result")
}

func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Fprintf(s.out, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Fprintln(s.out, "Include 'X-API-Key: <your-key>' or 'Authorization: Bearer <your-key>' in requests")
		return
	}
	fmt.Fprintln(s.out, "API authentication: DISABLED (no API keys configured)")
	fmt.Fprintln(s.out, "WARNING: API endpoints are publicly accessible!")
}

func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(s.out, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
		return
	}
	fmt.Fprintln(s.out, "Request size limit: DISABLED")
}

func (s *Server) displayRateLimitInfo() {
	if s.RateLimiter == nil {
		fmt.Fprintln(s.out, "Rate limiting: DISABLED")
		return
	}
	fmt.Fprintf(s.out, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
		s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	if s.RateLimit.ByAPIKey {
		fmt.Fprintln(s.out, "  - Per API key")
	}
	if s.RateLimit.ByIP {
		fmt.Fprintln(s.out, "  - Per IP address")
	}
}
