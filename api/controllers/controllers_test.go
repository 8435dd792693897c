package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sekolah-terpadu/inventaris-backend/api/middleware"
	"github.com/sekolah-terpadu/inventaris-backend/internal/inventaris"
	"github.com/sekolah-terpadu/inventaris-backend/internal/ledger"
	"github.com/sekolah-terpadu/inventaris-backend/internal/obat"
	"github.com/sekolah-terpadu/inventaris-backend/internal/reports"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/config"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/pagination"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/types"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
)

type stubInventarisService struct {
	inventaris.Service
	items     []inventaris.ItemDTO
	err       error
	gotScope  visibility.Scope
	gotID     uuid.UUID
	gotActor  uuid.UUID
	deleteErr error
}

func (s *stubInventarisService) List(_ context.Context, scope visibility.Scope) ([]inventaris.ItemDTO, error) {
	s.gotScope = scope
	return s.items, s.err
}

func (s *stubInventarisService) Create(_ context.Context, scope visibility.Scope, actor uuid.UUID, input inventaris.CreateInput) (*inventaris.ItemDTO, error) {
	s.gotScope = scope
	s.gotActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &inventaris.ItemDTO{ID: uuid.New(), NamaBarang: input.NamaBarang}, nil
}

func (s *stubInventarisService) Get(_ context.Context, scope visibility.Scope, id uuid.UUID) (*inventaris.ItemDTO, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return &inventaris.ItemDTO{ID: id}, nil
}

func (s *stubInventarisService) Delete(_ context.Context, scope visibility.Scope, id uuid.UUID) error {
	s.gotID = id
	return s.deleteErr
}

type stubObatService struct {
	obat.Service
	usage    *obat.UsageResult
	history  []ledger.EntryDTO
	err      error
	gotInput obat.UsageInput
	gotID    uuid.UUID
	gotScope visibility.Scope
	sweepAll bool
}

func (s *stubObatService) History(_ context.Context, scope visibility.Scope, id uuid.UUID) ([]ledger.EntryDTO, error) {
	s.gotID = id
	s.gotScope = scope
	return s.history, s.err
}

func (s *stubObatService) RecordUsage(_ context.Context, scope visibility.Scope, actor uuid.UUID, input obat.UsageInput) (*obat.UsageResult, error) {
	s.gotInput = input
	return s.usage, s.err
}

func (s *stubObatService) Sweep(_ context.Context, scope visibility.Scope) (obat.SweepResult, error) {
	s.sweepAll = len(scope.Locations()) == len(enums.AllLokasi())
	return obat.SweepResult{Processed: 1, UnitsRemoved: 4}, nil
}

type stubLedgerService struct {
	ledger.Service
	gotParams pagination.Params
}

func (s *stubLedgerService) List(_ context.Context, scope visibility.Scope, params pagination.Params) (types.CursorPage[ledger.EntryDTO], error) {
	s.gotParams = params
	return types.CursorPage[ledger.EntryDTO]{Items: []ledger.EntryDTO{{JumlahKeluar: 2}}, NextCursor: "next"}, nil
}

type stubReportService struct {
	reports.Service
	gotReq reports.ExportRequest
	err    error
}

func (s *stubReportService) Export(_ context.Context, scope visibility.Scope, req reports.ExportRequest) (*reports.File, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &reports.File{Name: "laporan-obat-2026-03-10.xlsx", ContentType: "application/octet-stream", Body: []byte("PK")}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func withIdentity(req *http.Request, role enums.Role) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), uuid.NewString(), string(role), "jti")
	return req.WithContext(ctx)
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope.Error.Code
}

func TestInventarisListUsesRoleScope(t *testing.T) {
	svc := &stubInventarisService{items: []inventaris.ItemDTO{{NamaBarang: "Meja"}}}
	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/inventaris/operator_sd", nil), enums.RoleOperatorSD)
	rec := httptest.NewRecorder()

	InventarisList(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	locs := svc.gotScope.Locations()
	if len(locs) != 1 || locs[0] != enums.LokasiSD {
		t.Fatalf("expected SD scope, got %v", locs)
	}
}

func TestInventarisListMissingRole(t *testing.T) {
	rec := httptest.NewRecorder()
	InventarisList(&stubInventarisService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestInventarisCreateReturns201(t *testing.T) {
	svc := &stubInventarisService{}
	body := `{"nama_barang":"Proyektor","kategori":"Elektronik","jumlah":1,"lokasi":"SD","kondisi":"Baik"}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/inventaris", strings.NewReader(body)), enums.RoleOperatorSD)
	rec := httptest.NewRecorder()

	InventarisCreate(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotActor == uuid.Nil {
		t.Fatal("expected actor id to be forwarded")
	}
}

func TestInventarisCreateRejectsInvalidBody(t *testing.T) {
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/inventaris", strings.NewReader(`{"nama_barang":""}`)), enums.RoleOperatorSD)
	rec := httptest.NewRecorder()

	InventarisCreate(&stubInventarisService{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %s", code)
	}
}

func TestInventarisItemRoutes(t *testing.T) {
	svc := &stubInventarisService{}
	router := chi.NewRouter()
	router.Get("/api/inventaris/item/{id}", InventarisGet(svc, nil))
	router.Delete("/api/inventaris/item/{id}", InventarisDelete(svc, nil))

	id := uuid.New()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/inventaris/item/"+id.String(), nil), enums.RoleAdmin))
	if rec.Code != http.StatusOK || svc.gotID != id {
		t.Fatalf("expected 200 for %s, got %d (%s)", id, rec.Code, svc.gotID)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/inventaris/item/not-a-uuid", nil), enums.RoleAdmin))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodDelete, "/api/inventaris/item/"+id.String(), nil), enums.RoleAdmin))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
}

func TestInventarisGetForbiddenPassthrough(t *testing.T) {
	svc := &stubInventarisService{err: pkgerrors.New(pkgerrors.CodeForbidden, "forbidden")}
	router := chi.NewRouter()
	router.Get("/api/inventaris/item/{id}", InventarisGet(svc, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/inventaris/item/"+uuid.NewString(), nil), enums.RoleOperatorTK))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestObatUsageCreated(t *testing.T) {
	obatID := uuid.New()
	svc := &stubObatService{usage: &obat.UsageResult{Obat: obat.ObatDTO{ID: obatID, Jumlah: 8}}}
	body, _ := json.Marshal(map[string]any{"obat_id": obatID, "jumlah_keluar": 2, "keterangan": "demam"})
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/obat/usage", bytes.NewReader(body)), enums.RoleOperatorSD)
	rec := httptest.NewRecorder()

	ObatUsage(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotInput.ObatID != obatID || svc.gotInput.JumlahKeluar != 2 {
		t.Fatalf("unexpected input %+v", svc.gotInput)
	}
	var envelope struct {
		Data obat.UsageResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Obat.Jumlah != 8 {
		t.Fatalf("expected remaining 8 got %d", envelope.Data.Obat.Jumlah)
	}
}

func TestObatUsageRejectsZeroQuantity(t *testing.T) {
	body := `{"obat_id":"` + uuid.NewString() + `","jumlah_keluar":0}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/obat/usage", strings.NewReader(body)), enums.RoleOperatorSD)
	rec := httptest.NewRecorder()

	ObatUsage(&stubObatService{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestObatUsageInsufficientStock(t *testing.T) {
	svc := &stubObatService{err: pkgerrors.Validation("insufficient stock", map[string]string{"jumlah_keluar": "exceeds available stock"})}
	body := `{"obat_id":"` + uuid.NewString() + `","jumlah_keluar":50}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/obat/usage", strings.NewReader(body)), enums.RoleOperatorSD)
	rec := httptest.NewRecorder()

	ObatUsage(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestObatSweepUsesAllLocations(t *testing.T) {
	svc := &stubObatService{}
	rec := httptest.NewRecorder()

	ObatSweep(svc, nil).ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/api/obat/sweep", nil), enums.RoleAdmin))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.sweepAll {
		t.Fatal("expected sweep across every location")
	}
}

func TestObatRiwayatPagination(t *testing.T) {
	svc := &stubLedgerService{}
	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/obat/riwayat/admin?limit=10&cursor=abc", nil), enums.RoleAdmin)
	rec := httptest.NewRecorder()

	ObatRiwayat(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotParams.Limit != 10 || svc.gotParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", svc.gotParams)
	}

	rec = httptest.NewRecorder()
	ObatRiwayat(svc, nil).ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/obat/riwayat/admin?limit=500", nil), enums.RoleAdmin))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized limit got %d", rec.Code)
	}
}

func TestObatItemRiwayat(t *testing.T) {
	id := uuid.New()
	svc := &stubObatService{history: []ledger.EntryDTO{{ObatID: id, JumlahKeluar: 3}}}
	router := chi.NewRouter()
	router.Get("/api/obat/item/{id}/riwayat", ObatItemRiwayat(svc, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/obat/item/"+id.String()+"/riwayat", nil), enums.RoleOperatorSMP))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotID != id {
		t.Fatalf("expected id %s got %s", id, svc.gotID)
	}
	if locs := svc.gotScope.Locations(); len(locs) != 1 || locs[0] != enums.LokasiSMP {
		t.Fatalf("expected SMP scope, got %v", locs)
	}
	var envelope struct {
		Data []ledger.EntryDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].JumlahKeluar != 3 {
		t.Fatalf("unexpected entries %+v", envelope.Data)
	}
}

func TestObatItemRiwayatOutsideScope(t *testing.T) {
	svc := &stubObatService{err: pkgerrors.New(pkgerrors.CodeNotFound, "obat not found")}
	router := chi.NewRouter()
	router.Get("/api/obat/item/{id}/riwayat", ObatItemRiwayat(svc, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/obat/item/"+uuid.NewString()+"/riwayat", nil), enums.RoleOperatorSD))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestLaporanExportAttachment(t *testing.T) {
	svc := &stubReportService{}
	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/laporan/operator_sd?type=medicine&format=xlsx&period=Maret%202026", nil), enums.RoleOperatorSD)
	rec := httptest.NewRecorder()

	LaporanExport(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "laporan-obat-2026-03-10.xlsx") {
		t.Fatalf("unexpected disposition %q", got)
	}
	if svc.gotReq.Type != "medicine" || svc.gotReq.Format != "xlsx" || svc.gotReq.Period != "Maret 2026" {
		t.Fatalf("unexpected request %+v", svc.gotReq)
	}
}

func TestLaporanExportValidationError(t *testing.T) {
	svc := &stubReportService{err: pkgerrors.Validation("invalid report request", map[string]string{"format": "must be one of: pdf, xlsx"})}
	rec := httptest.NewRecorder()

	LaporanExport(svc, nil).ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/laporan/admin?format=doc", nil), enums.RoleAdmin))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{}}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"redis": stubPinger{err: errors.New("down")}}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}

func TestAuthLogoutRequiresBearer(t *testing.T) {
	rec := httptest.NewRecorder()
	AuthLogout(stubAuthService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
