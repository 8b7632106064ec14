// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poiesic/resumatch/core"
)

const (
	jobEchoLength   = 200
	multipartMemory = 32 << 20
)

type jobRequest struct {
	JobText string `json:"job_text"`
}

type matchResponse struct {
	Rank          int      `json:"rank"`
	File          string   `json:"file"`
	Text          string   `json:"text"`
	Distance      float64  `json:"distance"`
	SemanticScore float64  `json:"semantic_score"`
	SkillsScore   float64  `json:"skills_score"`
	HybridScore   float64  `json:"hybrid_score"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	TotalMatched  int      `json:"total_matched"`
	TotalRequired int      `json:"total_required"`
}

type rankResponse struct {
	Results        []matchResponse `json:"results"`
	JobDescription string          `json:"job_description"`
}

type analysisResponse struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	OverallFit string   `json:"overall_fit"`
	Reasoning  string   `json:"reasoning"`
	MatchScore float64  `json:"match_score"`
}

type analyzeResponse struct {
	Success  bool             `json:"success"`
	Analysis analysisResponse `json:"analysis"`
}

type uploadResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	TotalResumes int    `json:"total_resumes"`
}

type statsResponse struct {
	TotalResumes int  `json:"total_resumes"`
	IndexReady   bool `json:"index_ready"`
	Dimension    int  `json:"dimension"`
}

// Rank handles POST /api/rank.
func (s *Server) Rank(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJob(w, r)
	if !ok {
		return
	}

	results, err := s.service.Rank(r.Context(), req.JobText)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	resp := rankResponse{
		Results:        make([]matchResponse, 0, len(results)),
		JobDescription: echoJob(strings.TrimSpace(req.JobText)),
	}
	for _, m := range results {
		resp.Results = append(resp.Results, matchToResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Analyze handles POST /api/analyze/{identifier}.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJob(w, r)
	if !ok {
		return
	}
	identifier := chi.URLParam(r, "identifier")

	analysis, err := s.service.Explain(r.Context(), identifier, req.JobText)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success: true,
		Analysis: analysisResponse{
			Strengths:  nonNil(analysis.Strengths),
			Weaknesses: nonNil(analysis.Weaknesses),
			OverallFit: analysis.OverallFit,
			Reasoning:  analysis.Reasoning,
			MatchScore: analysis.MatchScore,
		},
	})
}

// Upload handles POST /api/upload. Accepted files are written to the resume
// directory, which is then ingested.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the maximum size")
			return
		}
		writeError(w, http.StatusBadRequest, "No files provided")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No files provided")
		return
	}

	if err := os.MkdirAll(s.config.ResumeDir, 0o755); err != nil {
		s.handleServiceError(w, err)
		return
	}

	var uploaded []string
	for _, fh := range files {
		name, ok := s.acceptedName(fh.Filename)
		if !ok {
			s.logger.Debug("upload rejected", "file", fh.Filename)
			continue
		}
		if err := saveUpload(fh, filepath.Join(s.config.ResumeDir, name)); err != nil {
			s.handleServiceError(w, err)
			return
		}
		uploaded = append(uploaded, name)
		s.logger.Info("uploaded", "file", name)
	}
	if len(uploaded) == 0 {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("No valid %s files provided", strings.Join(s.config.Extensions, ", ")))
		return
	}

	report, err := s.service.Ingest(r.Context(), s.config.ResumeDir)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:      true,
		Message:      fmt.Sprintf("Uploaded %d file(s), ingested %d resume(s)", len(uploaded), report.Added),
		TotalResumes: report.Total,
	})
}

// Stats handles GET /api/stats.
func (s *Server) Stats(w http.ResponseWriter, _ *http.Request) {
	stats := s.service.Stats()
	writeJSON(w, http.StatusOK, statsResponse{
		TotalResumes: stats.TotalDocuments,
		IndexReady:   stats.IndexReady,
		Dimension:    stats.Dimension,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeJob reads a jobRequest. An empty body decodes to an empty job.
func decodeJob(w http.ResponseWriter, r *http.Request) (jobRequest, bool) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}

// acceptedName reduces a client filename to a safe base name and reports
// whether its extension is accepted.
func (s *Server) acceptedName(filename string) (string, bool) {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return name, slices.Contains(s.config.Extensions, ext)
}

func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func echoJob(job string) string {
	runes := []rune(job)
	if len(runes) <= jobEchoLength {
		return job
	}
	return string(runes[:jobEchoLength]) + "..."
}

func matchToResponse(m core.MatchResult) matchResponse {
	return matchResponse{
		Rank:          m.Rank,
		File:          m.DocumentIdentifier,
		Text:          m.Preview,
		Distance:      m.Distance,
		SemanticScore: m.SemanticScore,
		SkillsScore:   m.SkillsScore,
		HybridScore:   m.HybridScore,
		Score:         m.HybridScore,
		MatchedSkills: nonNil(m.MatchedSkills),
		MissingSkills: nonNil(m.MissingSkills),
		TotalMatched:  m.TotalMatched,
		TotalRequired: m.TotalRequired,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
