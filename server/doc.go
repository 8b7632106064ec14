// Package server exposes ranking, analysis, upload and stats over HTTP.
//
// Routes:
//
//	POST /api/rank                  {"job_text": "..."}
//	POST /api/analyze/{identifier}  {"job_text": "..."}
//	POST /api/upload                multipart form, field "files"
//	GET  /api/stats
//	GET  /metrics                   Prometheus exposition
//
// Every error response has the form {"error": "..."}.
package server
