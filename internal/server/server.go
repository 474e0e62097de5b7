package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/config"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/document"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/llm"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/storage"
)

type Server struct {
	Config *config.Config
	LLM    llm.Client
	Store  storage.RunStore
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using built-in defaults.", cfgPath, err)
		cfg = config.Default()
	}

	// Env vars win over the config file
	if envProvider := os.Getenv("LLM_PROVIDER"); envProvider != "" {
		cfg.LLM.Provider = envProvider
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if envAPIKey := os.Getenv("LLM_API_KEY"); envAPIKey != "" {
		cfg.LLM.APIKey = envAPIKey
	}
	if envBaseURL := os.Getenv("LLM_BASE_URL"); envBaseURL != "" {
		cfg.LLM.BaseURL = envBaseURL
	}
	if envDBPath := os.Getenv("DDR_DB_PATH"); envDBPath != "" {
		cfg.Storage.Path = envDBPath
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		log.Fatalf("Failed to create storage directory: %v", err)
	}
	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open run store at %s: %v", cfg.Storage.Path, err)
	}

	return &Server{
		Config: cfg,
		LLM:    llmClient,
		Store:  store,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/api/health", s.Health)
	r.POST("/api/reports", uploadDir(), s.CreateReport)
	r.GET("/api/reports", s.ListReports)
	r.GET("/api/reports/:id", s.GetReport)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"provider":    s.Config.LLM.Provider,
		"model":       s.Config.LLM.Model,
		"api_key_set": s.Config.LLM.APIKey != "",
	})
}

// CreateReport accepts a multipart upload with the two source documents
// ("inspection" and "thermal", .txt or .pdf) and an optional "threshold"
// form field, and returns the full pipeline result.
func (s *Server) CreateReport(c *gin.Context) {
	inspectionText, inspectionName, ok := s.loadUpload(c, "inspection")
	if !ok {
		return
	}
	thermalText, thermalName, ok := s.loadUpload(c, "thermal")
	if !ok {
		return
	}

	cfg := *s.Config
	if raw := c.PostForm("threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil || threshold <= 0 || threshold > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a number in (0, 1]"})
			return
		}
		cfg.Merge.Threshold = threshold
	}

	pipeline := core.NewPipeline(s.LLM, &cfg, s.Store)
	result, err := pipeline.Generate(c.Request.Context(), core.Request{
		InspectionText: inspectionText,
		ThermalText:    thermalText,
		InspectionFile: inspectionName,
		ThermalFile:    thermalName,
	})
	if err != nil {
		log.Printf("Report generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) ListReports(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.Store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		log.Printf("Failed to list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) GetReport(c *gin.Context) {
	run, err := s.Store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// loadUpload saves the named multipart file to a temp dir and loads its
// text. Replies with the appropriate error status itself; callers just
// check ok.
func (s *Server) loadUpload(c *gin.Context, field string) (text, name string, ok bool) {
	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing '" + field + "' file"})
		return "", "", false
	}

	dst := filepath.Join(c.MustGet(tempDirKey).(string), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Printf("Failed to save upload %s: %v", file.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return "", "", false
	}

	text, err = document.Load(dst)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", "", false
	}
	return text, file.Filename, true
}

const tempDirKey = "upload_dir"

// uploadDir gives every request its own scratch directory for uploads,
// removed when the request finishes.
func uploadDir() gin.HandlerFunc {
	return func(c *gin.Context) {
		dir, err := os.MkdirTemp("", "ddr-upload-*")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate upload dir"})
			return
		}
		defer os.RemoveAll(dir)
		c.Set(tempDirKey, dir)
		c.Next()
	}
}
