package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cleberrangel/progresso-api/internal/calendar"
	"github.com/cleberrangel/progresso-api/internal/service"
	"github.com/cleberrangel/progresso-api/internal/task"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var saoPaulo = func() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		panic(err)
	}
	return loc
}()

func testService(t *testing.T) *service.ReportService {
	t.Helper()
	days := make(map[calendar.Date]bool)
	for d := (calendar.Date{Year: 2025, Month: time.September, Day: 15}); !d.After(calendar.Date{Year: 2025, Month: time.September, Day: 30}); d = d.AddDays(1) {
		days[d] = true
	}
	cal, err := calendar.New(days, saoPaulo, calendar.DefaultShift)
	if err != nil {
		t.Fatal(err)
	}
	return service.NewReportService(cal, task.DefaultPolicy, nil, nil)
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(testService(t), saoPaulo)
	r.POST("/api/v1/reports", h.Generate)
	return r
}

// progressSheet writes a minimal workbook in the upload layout.
func progressSheet(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Equipe", "Baseline", "Responsável 1"},
		{"Time Alfa", "Sprint 42", "ana"},
		{"", "", "líder"},
		{},
		{"Tarefa", "Progresso (%)", "Início Previsto", "Fim Previsto", "Início Real", "Fim Real", "Responsável 1"},
		{"implementar", "50", "2025-09-16 09:00", "2025-09-16 17:00", "2025-09-16 09:00", "", "ana"},
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cellName, &r); err != nil {
			t.Fatal(err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, payload []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestGenerateEndpoint(t *testing.T) {
	r := testRouter(t)
	req := uploadRequest(t, "progresso.xlsx", progressSheet(t), map[string]string{
		"now": "2025-09-18T15:00:00-03:00",
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Team      string `json:"team"`
			TaskCount int    `json:"task_count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data.Team != "Time Alfa" || resp.Data.TaskCount != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGenerateEndpointRejectsBadInput(t *testing.T) {
	r := testRouter(t)

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		req := uploadRequest(t, "progresso.csv", []byte("a,b"), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("invalid now field", func(t *testing.T) {
		req := uploadRequest(t, "progresso.xlsx", progressSheet(t), map[string]string{
			"now": "ontem",
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("not a spreadsheet", func(t *testing.T) {
		req := uploadRequest(t, "progresso.xlsx", []byte("lixo"), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", NewHealthHandler("test", nil).Check)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
	if _, hasDB := body["database"]; hasDB {
		t.Error("database key must be absent without a connection")
	}
}
