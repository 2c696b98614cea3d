package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	"github.com/smallbiznis/carbonledger/internal/config"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	"github.com/smallbiznis/carbonledger/internal/observability"
	obsmetrics "github.com/smallbiznis/carbonledger/internal/observability/metrics"
	"github.com/smallbiznis/carbonledger/internal/providers/pdf"
	referencedomain "github.com/smallbiznis/carbonledger/internal/reference/domain"
	"github.com/stretchr/testify/assert"
)

type fakeCalcService struct {
	stationaryErr error
	summary       *calcdomain.ScopeSummary
	calls         int
}

func (f *fakeCalcService) CalculateStationaryCombustion(ctx context.Context, req calcdomain.StationaryRequest) (*calcdomain.StationaryResult, error) {
	f.calls++
	if f.stationaryErr != nil {
		return nil, f.stationaryErr
	}
	return &calcdomain.StationaryResult{
		Calculations: []calcdomain.CalculationResult{{FuelType: "Diesel", TotalCO2e: 2543.90}},
		TotalCO2e:    2543.90,
	}, nil
}

func (f *fakeCalcService) CalculateMobileCombustion(ctx context.Context, req calcdomain.MobileRequest) (*calcdomain.MobileResult, error) {
	f.calls++
	return &calcdomain.MobileResult{TotalMobileEmissions: 171.36}, nil
}

func (f *fakeCalcService) CalculateFugitiveEmissions(ctx context.Context, req calcdomain.FugitiveRequest) (*calcdomain.FugitiveResult, error) {
	f.calls++
	return &calcdomain.FugitiveResult{TotalFugitiveEmissions: 9857.50}, nil
}

func (f *fakeCalcService) CalculateScope2Emissions(ctx context.Context, req calcdomain.Scope2Request) (*calcdomain.Scope2Result, error) {
	f.calls++
	return &calcdomain.Scope2Result{Method: calcdomain.Scope2LocationBased, TotalScope2Emissions: 82880.00}, nil
}

func (f *fakeCalcService) CalculateComprehensiveEmissions(ctx context.Context, req calcdomain.ComprehensiveRequest) (*calcdomain.ScopeSummary, error) {
	f.calls++
	if f.summary != nil {
		return f.summary, nil
	}
	return &calcdomain.ScopeSummary{
		Country:     req.Country,
		GrandTotals: calcdomain.GrandTotals{LocationBased: 95281.40, MarketBased: 100951.40},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

type fakeFactorService struct {
	importErr error
	getErr    error
	record    *factordomain.EmissionFactorRecord
}

func (f *fakeFactorService) Import(ctx context.Context, req factordomain.ImportRequest) (*factordomain.EmissionFactorRecord, error) {
	if f.importErr != nil {
		return nil, f.importErr
	}
	record := &factordomain.EmissionFactorRecord{
		FuelType: req.FuelType,
		Country:  req.Country,
		Source:   req.Source,
		Version:  1,
	}
	return record, nil
}

func (f *fakeFactorService) List(ctx context.Context, req factordomain.ListRequest) (*factordomain.ListResult, error) {
	if req.PageToken == "bad-token" {
		return nil, factordomain.ErrInvalidPageToken
	}
	result := &factordomain.ListResult{Items: []factordomain.EmissionFactorRecord{{FuelType: "Diesel"}}}
	return result, nil
}

func (f *fakeFactorService) GetByID(ctx context.Context, id string) (*factordomain.EmissionFactorRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.record, nil
}

func (f *fakeFactorService) Deactivate(ctx context.Context, id string) error {
	return f.getErr
}

type fakeReferenceRepo struct{}

func (f *fakeReferenceRepo) ListCountries(ctx context.Context) ([]referencedomain.Country, error) {
	return []referencedomain.Country{
		{Code: "IE", Name: "Ireland", Region: "Europe"},
	}, nil
}

func (f *fakeReferenceRepo) ListFuelTypes(ctx context.Context, category string) ([]referencedomain.FuelType, error) {
	return []referencedomain.FuelType{
		{Name: "Diesel", Unit: "litre", Category: "SCOPE_1"},
	}, nil
}

type testServer struct {
	server    *Server
	calcSvc   *fakeCalcService
	factorSvc *fakeFactorService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	httpMetrics, err := obsmetrics.NewHTTPMetrics()
	assert.NoError(t, err)

	engine := NewEngine(observability.Config{}, httpMetrics)

	calcSvc := &fakeCalcService{}
	factorSvc := &fakeFactorService{}
	server := NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{HTTPAddr: ":0"},
		FactorSvc:   factorSvc,
		CalcSvc:     calcSvc,
		Refrepo:     &fakeReferenceRepo{},
		PDFProvider: pdf.New(),
	})

	return &testServer{server: server, calcSvc: calcSvc, factorSvc: factorSvc}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.server.Engine().ServeHTTP(rec, req)
	return rec
}

func TestCalculateStationary(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodPost, "/api/calculations/stationary", calcdomain.StationaryRequest{
		Country: "Ireland",
		Activities: []calcdomain.StationaryActivity{
			{FuelType: "Diesel", Quantity: 1000, Unit: "litre"},
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.calcSvc.calls)

	var result calcdomain.StationaryResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 2543.90, result.TotalCO2e, 1e-9)
}

func TestCalculateStationary_ValidationError(t *testing.T) {
	ts := newTestServer(t)
	ts.calcSvc.stationaryErr = calcdomain.NewValidationError("activities[0].quantity", "not_positive", "quantity must be positive")

	rec := ts.request(http.MethodPost, "/api/calculations/stationary", calcdomain.StationaryRequest{Country: "Ireland"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	assert.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "activities[0].quantity", resp.Error.Errors[0].Field)
}

func TestCalculateStationary_FactorNotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.calcSvc.stationaryErr = &calcdomain.NotFoundError{
		Category:    factordomain.Scope1,
		SubCategory: factordomain.StationaryCombustion,
		FuelType:    "Unicorn Dust",
		Country:     "Ireland",
	}

	rec := ts.request(http.MethodPost, "/api/calculations/stationary", calcdomain.StationaryRequest{Country: "Ireland"})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp errorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "factor_not_found", resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "Unicorn Dust")
}

func TestCalculateStationary_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calculations/stationary", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.server.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, ts.calcSvc.calls)
}

func TestCalculateComprehensive_ComputationError(t *testing.T) {
	ts := newTestServer(t)
	ts.calcSvc.stationaryErr = nil

	engineErr := &calcdomain.ComputationError{Op: "emission_intensity", Reason: "revenue must be positive"}
	status, payload := mapError(engineErr)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "computation_error", payload.Type)
}

func TestImportEmissionFactor(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodPost, "/api/emission-factors", factordomain.ImportRequest{
		Category:    factordomain.Scope1,
		SubCategory: factordomain.StationaryCombustion,
		FuelType:    "Diesel",
		Country:     "Ireland",
		Unit:        "litre",
		CO2Factor:   2.52,
		Source:      "SEAI 2024",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestImportEmissionFactor_InvalidUnit(t *testing.T) {
	ts := newTestServer(t)
	ts.factorSvc.importErr = factordomain.ErrInvalidUnit

	rec := ts.request(http.MethodPost, "/api/emission-factors", factordomain.ImportRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	assert.Equal(t, "invalid_unit", resp.Error.Errors[0].Code)
}

func TestListEmissionFactors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodGet, "/api/emission-factors?category=scope_1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var result factordomain.ListResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Items, 1)
}

func TestListEmissionFactors_BadPageToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodGet, "/api/emission-factors?page_token=bad-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEmissionFactorByID_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.factorSvc.getErr = factordomain.ErrNotFound

	rec := ts.request(http.MethodGet, "/api/emission-factors/12345", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp errorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error.Type)
}

func TestListCountries(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodGet, "/api/countries", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ireland")
}

func TestListFuelTypes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodGet, "/api/fuel-types?category=scope_1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Diesel")
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// Generate a request first so the counters have something to show.
	_ = ts.request(http.MethodGet, "/health", nil)

	rec := ts.request(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carbonledger_http_requests_total")
}

func TestExportEmissionsReportPDF(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodPost, "/api/reports/emissions/pdf", emissionsReportRequest{
		Organization:    "Acme Manufacturing Ltd",
		ReportingPeriod: "FY2025",
		Inventory:       calcdomain.ComprehensiveRequest{Country: "Ireland"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", rec.Body.String()[:4])
}

func TestExportEmissionsReportPDF_MissingOrganization(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodPost, "/api/reports/emissions/pdf", emissionsReportRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, ts.calcSvc.calls)
}

func TestCalculationRateLimit_DisabledPassesThrough(t *testing.T) {
	ts := newTestServer(t)

	for i := 0; i < 5; i++ {
		rec := ts.request(http.MethodPost, "/api/calculations/mobile", calcdomain.MobileRequest{Country: "Ireland"})
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 5, ts.calcSvc.calls)
}
